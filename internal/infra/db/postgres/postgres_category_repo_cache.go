package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/repository"
	"telegram-scam-guard/internal/infra/metrics"
	red "telegram-scam-guard/internal/infra/redis"
)

var _ repository.ScamCategoryRepository = (*categoryRepoCacheDecorator)(nil)

// The keyword tables are read on every locally-classified message, so the
// full list is kept hot in Redis and invalidated on writes.
type categoryRepoCacheDecorator struct {
	inner repository.ScamCategoryRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCategoryRepoCacheDecorator(inner repository.ScamCategoryRepository, cache red.RedisClient) repository.ScamCategoryRepository {
	return &categoryRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

// For write operations, we must invalidate the cache.
func (d *categoryRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, c *model.ScamCategory) error {
	d.cache.Del(ctx, fmt.Sprintf("scam_category:%s", c.Label))
	d.cache.Del(ctx, "scam_categories:all")
	return d.inner.Save(ctx, tx, c)
}

func (d *categoryRepoCacheDecorator) FindByLabel(ctx context.Context, tx repository.Tx, label string) (*model.ScamCategory, error) {
	key := fmt.Sprintf("scam_category:%s", label)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("scam_category", "hit")
		var c model.ScamCategory
		if json.Unmarshal([]byte(val), &c) == nil {
			return &c, nil
		}
	}

	metrics.IncCacheRequest("scam_category", "miss")
	c, err := d.inner.FindByLabel(ctx, tx, label)
	if err != nil {
		return nil, err
	}
	if c != nil {
		bytes, _ := json.Marshal(c)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return c, nil
}

// Also cache the full category list.
func (d *categoryRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ScamCategory, error) {
	key := "scam_categories:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("scam_category_list", "hit")
		var categories []*model.ScamCategory
		if json.Unmarshal([]byte(val), &categories) == nil {
			return categories, nil
		}
	}

	metrics.IncCacheRequest("scam_category_list", "miss")
	categories, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		bytes, _ := json.Marshal(categories)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return categories, nil
}
