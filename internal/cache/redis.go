package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultKeyPrefix = "mortgage-visualizer:schedule:"

// Redis stores JSON-encoded schedules in redis with a TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis wraps an existing client. An empty prefix uses the default one.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Get returns the cached schedule. Redis and decoding errors are logged and
// reported as a miss.
func (r *Redis) Get(ctx context.Context, key string) (mortgage.Schedule, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache lookup failed",
				zap.String("op", "cache.Redis.Get"),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var schedule mortgage.Schedule
	if err := json.Unmarshal(val, &schedule); err != nil {
		r.logger.Warn("discarding undecodable cached schedule",
			zap.String("op", "cache.Redis.Get"),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	return schedule, true
}

// Set stores the schedule under key.
func (r *Redis) Set(ctx context.Context, key string, schedule mortgage.Schedule) error {
	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache schedule: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
