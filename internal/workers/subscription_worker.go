package workers

import (
	"context"
	"time"

	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/repositories"

	"gorm.io/gorm"
)

// SubscriptionWorker periodically expires subscriptions whose end date
// has passed and prunes stale refresh tokens.
type SubscriptionWorker struct {
	db               *gorm.DB
	subscriptionRepo repositories.SubscriptionRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	interval         time.Duration
}

func NewSubscriptionWorker(
	db *gorm.DB,
	subscriptionRepo repositories.SubscriptionRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	interval time.Duration,
) *SubscriptionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionWorker{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		refreshTokenRepo: refreshTokenRepo,
		interval:         interval,
	}
}

// Run blocks until ctx is cancelled. Call in a goroutine.
func (w *SubscriptionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("subscription worker started", "interval", w.interval.String())
	w.sweep()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SubscriptionWorker) sweep() {
	expired, err := w.subscriptionRepo.ExpireDue(w.db, time.Now())
	if err != nil {
		logger.Error("subscription expiry sweep failed", "error", err)
	} else if expired > 0 {
		logger.Info("subscriptions expired", "count", expired)
	}

	pruned, err := w.refreshTokenRepo.DeleteExpired(w.db)
	if err != nil {
		logger.Error("refresh token prune failed", "error", err)
	} else if pruned > 0 {
		logger.Info("refresh tokens pruned", "count", pruned)
	}
}
