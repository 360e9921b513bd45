package workers

import (
	"context"
	"time"

	"courselab_backend/internal/logger"
	"courselab_backend/internal/repositories"
)

// TokenSweeper periodically deletes expired refresh and password reset
// tokens. Expired rows are already rejected on use, the sweep just keeps
// the tables from growing forever.
type TokenSweeper struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	resetTokenRepo   repositories.ResetTokenRepository
	interval         time.Duration
}

func NewTokenSweeper(
	refreshTokenRepo repositories.RefreshTokenRepository,
	resetTokenRepo repositories.ResetTokenRepository,
) *TokenSweeper {
	return &TokenSweeper{
		refreshTokenRepo: refreshTokenRepo,
		resetTokenRepo:   resetTokenRepo,
		interval:         time.Hour,
	}
}

func (w *TokenSweeper) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *TokenSweeper) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("token sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *TokenSweeper) sweep() {
	if n, err := w.refreshTokenRepo.DeleteExpired(); err != nil {
		logger.WithError(err).Error("failed to sweep refresh tokens")
	} else if n > 0 {
		logger.Info("swept expired refresh tokens", "count", n)
	}

	if n, err := w.resetTokenRepo.DeleteExpired(); err != nil {
		logger.WithError(err).Error("failed to sweep reset tokens")
	} else if n > 0 {
		logger.Info("swept expired reset tokens", "count", n)
	}
}
