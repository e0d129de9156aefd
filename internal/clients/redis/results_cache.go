package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

// ResultsCache holds recently computed live experiment results so dashboard
// polling does not re-run the aggregation query on every request. Entries
// expire after a short TTL; the cache is an optimization only and the system
// works without it.
type ResultsCache interface {
	Get(ctx context.Context, experimentID string) ([]*types.ExperimentResult, bool)
	Set(ctx context.Context, experimentID string, results []*types.ExperimentResult)
	Close() error
}

type resultsCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewResultsCache requires REDIS_ADDR; callers treat a nil cache as disabled.
func NewResultsCache(log *logger.Logger, ttl time.Duration) (ResultsCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &resultsCache{
		log: log.With("service", "RedisResultsCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(experimentID string) string {
	return "ab_test:live_results:" + experimentID
}

func (c *resultsCache) Get(ctx context.Context, experimentID string) ([]*types.ExperimentResult, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(experimentID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("live results cache read failed", "error", err, "experiment_id", experimentID)
		}
		return nil, false
	}
	var results []*types.ExperimentResult
	if err := json.Unmarshal(raw, &results); err != nil {
		c.log.Warn("live results cache entry corrupt, dropping", "error", err, "experiment_id", experimentID)
		_ = c.rdb.Del(ctx, cacheKey(experimentID)).Err()
		return nil, false
	}
	return results, true
}

func (c *resultsCache) Set(ctx context.Context, experimentID string, results []*types.ExperimentResult) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(results)
	if err != nil {
		c.log.Warn("live results cache marshal failed", "error", err, "experiment_id", experimentID)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(experimentID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("live results cache write failed", "error", err, "experiment_id", experimentID)
	}
}

func (c *resultsCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
