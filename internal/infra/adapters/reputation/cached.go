package reputation

import (
	"context"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
	"telegram-scam-guard/internal/infra/metrics"
	red "telegram-scam-guard/internal/infra/redis"

	"github.com/rs/zerolog"
)

var _ adapter.URLReputationAdapter = (*cachedReputationDecorator)(nil)

// cachedReputationDecorator short-circuits repeat lookups of the same URL.
// Hits are re-stamped with Source=cache so callers can tell a fresh
// lookup from a replayed one.
type cachedReputationDecorator struct {
	inner adapter.URLReputationAdapter
	cache *red.VerdictCache
	log   *zerolog.Logger
}

func NewCachedReputation(inner adapter.URLReputationAdapter, cache *red.VerdictCache, log *zerolog.Logger) adapter.URLReputationAdapter {
	return &cachedReputationDecorator{inner: inner, cache: cache, log: log}
}

func (d *cachedReputationDecorator) CheckURL(ctx context.Context, rawURL string) (*model.URLVerdict, error) {
	cached, err := d.cache.Get(ctx, rawURL)
	if err != nil {
		d.log.Warn().Err(err).Msg("verdict cache read failed")
	}
	if cached != nil {
		metrics.IncCacheRequest("url_verdict", "hit")
		hit := *cached
		hit.Source = model.SourceCache
		return &hit, nil
	}
	metrics.IncCacheRequest("url_verdict", "miss")

	verdict, err := d.inner.CheckURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if verdict.CheckedAt.IsZero() {
		verdict.CheckedAt = time.Now()
	}
	if err := d.cache.Store(ctx, verdict); err != nil {
		d.log.Warn().Err(err).Msg("verdict cache write failed")
	}
	return verdict, nil
}
