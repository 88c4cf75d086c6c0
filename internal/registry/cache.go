package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
)

// CachedClient is a Redis read-through cache in front of another registry
// client. Not-found results are not cached: a company registering mid-flight
// must become visible on the next parse. Cache failures fall back to the
// inner client, a stale cache must never fail a parse on its own.
type CachedClient struct {
	inner ports.CompanyRegistry
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedClient(inner ports.CompanyRegistry, rdb *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{inner: inner, redis: rdb, ttl: ttl}
}

func cacheKey(orgID string) string {
	return "registry:company:" + orgID
}

func (c *CachedClient) Lookup(ctx context.Context, orgID string) (*ports.CompanyInfo, error) {
	cached, err := c.redis.Get(ctx, cacheKey(orgID)).Bytes()
	if err == nil {
		var info ports.CompanyInfo
		if err := json.Unmarshal(cached, &info); err == nil {
			return &info, nil
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	info, err := c.inner.Lookup(ctx, orgID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshal company for cache: %w", err)
	}
	// Best effort: a write failure only costs the next lookup.
	c.redis.Set(ctx, cacheKey(orgID), payload, c.ttl)

	return info, nil
}
