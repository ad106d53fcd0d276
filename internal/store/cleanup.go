package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunCleanup calls CleanupExpired every interval until ctx is done. It
// returns immediately when s does not need sweeping.
func RunCleanup(ctx context.Context, s Store, interval time.Duration, logger *zap.Logger) {
	sweeper, ok := s.(Sweeper)
	if !ok || interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sweeper.CleanupExpired(ctx)
			if err != nil {
				logger.Warn("expired key cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("expired keys removed", zap.Int64("count", removed))
			}
		}
	}
}
