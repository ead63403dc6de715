// Package cache keeps recently computed schedules keyed by parameter
// fingerprint. A cache is an optimization only: every miss, including a
// backend failure, falls through to the engine.
package cache

import (
	"context"

	"github.com/iwvelando/mortgage-visualizer/internal/config"
	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores computed schedules.
type Cache interface {
	Get(ctx context.Context, key string) (mortgage.Schedule, bool)
	Set(ctx context.Context, key string, schedule mortgage.Schedule) error
	Close() error
}

// New builds the cache backend selected by cfg. A redis backend without an
// address falls back to memory.
func New(cfg config.CacheConfig, logger *zap.Logger) Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheMaxEntries
	}

	switch cfg.Backend {
	case constants.CacheBackendNone:
		logger.Info("schedule cache disabled", zap.String("op", "cache.New"))
		return Nop{}
	case constants.CacheBackendRedis:
		if cfg.Redis.Address == "" {
			logger.Warn("redis cache selected without an address, using memory",
				zap.String("op", "cache.New"),
			)
			break
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("using redis schedule cache",
			zap.String("op", "cache.New"),
			zap.String("address", cfg.Redis.Address),
		)
		return NewRedis(client, cfg.Redis.KeyPrefix, cfg.TTL(), logger)
	case "", constants.CacheBackendMemory:
	default:
		logger.Warn("unknown cache backend, using memory",
			zap.String("op", "cache.New"),
			zap.String("backend", cfg.Backend),
		)
	}
	return NewMemory(maxEntries, cfg.TTL())
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (mortgage.Schedule, bool) { return nil, false }

func (Nop) Set(context.Context, string, mortgage.Schedule) error { return nil }

func (Nop) Close() error { return nil }
