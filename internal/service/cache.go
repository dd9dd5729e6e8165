package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardCacheKey = "dashboard:summary"
	skuCachePrefix    = "product:sku:"
	skuCacheTTL       = 5 * time.Minute
)

// cache is a best-effort JSON cache over Redis. A nil client disables it,
// and Redis errors are logged, never returned.
type cache struct{ rdb *redis.Client }

func (c cache) get(ctx context.Context, key string, dst interface{}) bool {
	if c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache: get failed")
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c cache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c.rdb == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (c cache) del(ctx context.Context, keys ...string) {
	if c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: delete failed")
	}
}

// invalidateDashboard drops the cached dashboard summary after any write
// that changes its figures.
func (c cache) invalidateDashboard(ctx context.Context) {
	c.del(ctx, dashboardCacheKey)
}
