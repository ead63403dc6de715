package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cleaner is implemented by caches that hold expired entries until swept.
type Cleaner interface {
	CleanExpired() int
}

// StartCleanup sweeps c every interval until ctx is done. It reports whether
// a sweeper was started; backends that expire entries themselves, such as
// redis, need none.
func StartCleanup(ctx context.Context, c Cache, interval time.Duration, logger *zap.Logger) bool {
	cleaner, ok := c.(Cleaner)
	if !ok || interval <= 0 {
		return false
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := cleaner.CleanExpired(); removed > 0 {
					logger.Debug("removed expired schedules",
						zap.String("op", "cache.StartCleanup"),
						zap.Int("removed", removed),
					)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return true
}
