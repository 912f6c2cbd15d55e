package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/service"
)

// StartCleanupWorker runs the expired-owner sweep on an interval until
// ctx is cancelled.
func StartCleanupWorker(ctx context.Context, cleanup *service.CleanupService, interval time.Duration, logger *zap.Logger) {
	if cleanup == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if _, err := cleanup.PurgeExpiredOwners(ctx, now); err != nil {
					logger.Error("cleanup sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
