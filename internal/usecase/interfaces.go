package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
)

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// Clock lets tests pin "now".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
