package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) bool

// MonitorHealth runs check every interval and stores the outcome in healthy
// until ctx is canceled.
func MonitorHealth(ctx context.Context, name string, interval time.Duration, check CheckFunc, healthy *atomic.Bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := check(ctx)
			if healthy.Swap(isHealthy) != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] Dependency recovered", slog.String("name", name))
				} else {
					slog.Warn("[HealthCheck] Dependency is unhealthy", slog.String("name", name))
				}
			}
		}
	}
}
