package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/infra/http/middleware"
)

type expiredDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// ExpirationWorker periodically flips is_active off for patients whose
// expiration date has passed.
type ExpirationWorker struct {
	patients     expiredDeactivator
	tickInterval time.Duration
	now          func() time.Time
}

func NewExpirationWorker(patients expiredDeactivator, interval time.Duration) *ExpirationWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirationWorker{
		patients:     patients,
		tickInterval: interval,
		now:          time.Now,
	}
}

func (w *ExpirationWorker) Start(ctx context.Context) {
	slog.Info("expiration worker started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("expiration worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs one sweep and returns how many patients were deactivated.
// Errors are logged; the next tick retries.
func (w *ExpirationWorker) RunOnce(ctx context.Context) int64 {
	n, err := w.patients.DeactivateExpired(ctx, w.now())
	if err != nil {
		slog.Error("expiration sweep failed", "error", err)
		return 0
	}

	middleware.RecordPatientsDeactivated(n)
	if n > 0 {
		slog.Info("expired patients deactivated", "count", n)
	}
	return n
}
