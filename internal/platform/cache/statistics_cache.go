// Package cache provides the Redis-backed statistics cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"slambook_backend/internal/feature/entries/domain/entity"
	"slambook_backend/internal/feature/entries/usecase"
)

// genTTL bounds the lifetime of a user's generation counter. It only has to
// outlive a single statistics computation.
const genTTL = 24 * time.Hour

// errStaleGeneration aborts a Set whose statistics predate an invalidation.
var errStaleGeneration = errors.New("statistics generation changed")

// StatisticsCache stores per-user entry statistics in Redis.
// Each user also has a generation counter that Invalidate increments; Set
// only stores statistics computed under the current generation.
// A nil client turns every operation into a miss or a no-op, so callers can
// run without Redis.
type StatisticsCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.StatisticsCache = (*StatisticsCache)(nil)

// NewStatisticsCache creates a StatisticsCache.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "stats".
func NewStatisticsCache(rdb *redis.Client, ttl time.Duration, namespace string) *StatisticsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "stats"
	}
	return &StatisticsCache{rdb: rdb, ttl: ttl, namespace: namespace}
}

// Get returns the cached statistics of userID. Misses, Redis failures and
// corrupted values all report ok=false.
func (c *StatisticsCache) Get(ctx context.Context, userID string) (*entity.Statistics, bool) {
	if c.rdb == nil {
		return nil, false
	}

	key := c.cacheKey(userID)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("statistics cache read failed", "error", err, "key", key)
		}
		return nil, false
	}

	var stats entity.Statistics
	if err := json.Unmarshal(b, &stats); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	if stats.ByTag == nil {
		stats.ByTag = map[string]int64{}
	}
	return &stats, true
}

// Generation returns the current generation of userID, 0 if none was recorded.
func (c *StatisticsCache) Generation(ctx context.Context, userID string) (int64, error) {
	if c.rdb == nil {
		return 0, nil
	}
	gen, err := c.rdb.Get(ctx, c.genKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

// Set stores stats for userID with the configured TTL, provided gen is still
// the current generation. Statistics from an older generation are dropped
// silently.
func (c *StatisticsCache) Set(ctx context.Context, userID string, gen int64, stats *entity.Statistics) error {
	if c.rdb == nil || stats == nil {
		return nil
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	genKey := c.genKey(userID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.cacheKey(userID), b, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		// invalidated while the statistics were computed
		return nil
	}
	return err
}

// Invalidate advances the generation of userID and removes its cached statistics.
func (c *StatisticsCache) Invalidate(ctx context.Context, userID string) error {
	if c.rdb == nil {
		return nil
	}
	genKey := c.genKey(userID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, genTTL)
		pipe.Del(ctx, c.cacheKey(userID))
		return nil
	})
	return err
}

// Flush removes every key in the namespace. It runs at startup after
// migrations so that no statistics computed against an older schema survive.
func (c *StatisticsCache) Flush(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

func (c *StatisticsCache) cacheKey(userID string) string {
	return c.namespace + ":" + safe(userID)
}

// genKey cannot collide with cacheKey: safe strips colons from userID.
func (c *StatisticsCache) genKey(userID string) string {
	return c.namespace + ":gen:" + safe(userID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *StatisticsCache) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
