package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
)

type expiringLister interface {
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Patient, error)
}

type notificationPublisher interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// ReminderWorker queues a renewal reminder for every active patient whose
// subscription expires daysBefore days from today. Each calendar day is
// processed once per process.
type ReminderWorker struct {
	patients     expiringLister
	publisher    notificationPublisher
	calendar     entity.Calendar
	daysBefore   int
	tickInterval time.Duration
	now          func() time.Time

	lastDay string
}

func NewReminderWorker(
	patients expiringLister,
	publisher notificationPublisher,
	calendar entity.Calendar,
	daysBefore int,
	interval time.Duration,
) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		patients:     patients,
		publisher:    publisher,
		calendar:     calendar,
		daysBefore:   daysBefore,
		tickInterval: interval,
		now:          time.Now,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	slog.Info("reminder worker started", "days_before", w.daysBefore, "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce returns the number of reminders queued.
func (w *ReminderWorker) RunOnce(ctx context.Context) int {
	now := w.now()
	today := w.calendar.StartOfDay(now).Format("2006-01-02")
	if today == w.lastDay {
		return 0
	}

	from := w.calendar.StartOfDay(now.AddDate(0, 0, w.daysBefore)).UTC()
	to := from.AddDate(0, 0, 1)

	patients, err := w.patients.ListExpiringBetween(ctx, from, to)
	if err != nil {
		slog.Error("reminder: failed to list expiring patients", "error", err)
		return 0
	}

	sent := 0
	for _, p := range patients {
		if p.ExpirationDate == nil {
			continue
		}
		payload := queue.NotificationPayload{
			Kind:           queue.KindRenewalReminder,
			PatientID:      p.ID,
			Name:           p.Name,
			Phone:          p.Phone,
			Email:          p.Email,
			ExpirationDate: *p.ExpirationDate,
			DaysRemaining:  w.daysBefore,
			Origin:         "REMINDER_WORKER",
		}
		if err := w.publisher.PublishNotification(ctx, payload); err != nil {
			slog.Warn("reminder: publish failed", "patient_id", p.ID, "error", err)
			continue
		}
		sent++
	}

	w.lastDay = today
	if sent > 0 {
		slog.Info("renewal reminders queued", "count", sent, "expiring_on", from.Format("2006-01-02"))
	}
	return sent
}
