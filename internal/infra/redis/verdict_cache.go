package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"telegram-scam-guard/internal/domain/model"
)

// VerdictCache keeps URL reputation verdicts for a TTL so repeated checks
// of the same link skip the external API.
type VerdictCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewVerdictCache(client RedisClient, ttl time.Duration) *VerdictCache {
	return &VerdictCache{client: client, ttl: ttl}
}

// verdictKey hashes the canonical URL; raw URLs can exceed key-size comfort
// and may contain user PII in query strings.
func verdictKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "url_verdict:" + hex.EncodeToString(sum[:16])
}

func (c *VerdictCache) Store(ctx context.Context, v *model.URLVerdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, verdictKey(v.URL), data, c.ttl)
}

// Get returns (nil, nil) on a miss.
func (c *VerdictCache) Get(ctx context.Context, url string) (*model.URLVerdict, error) {
	data, err := c.client.Get(ctx, verdictKey(url))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var v model.URLVerdict
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, err
	}
	return &v, nil
}
