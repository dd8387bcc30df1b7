package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-convenios/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
)

type whatsAppChannel interface {
	Send(ctx context.Context, kind queue.NotificationKind, phone string, data NotificationEmailData) error
}

type emailChannel interface {
	SendNotification(to string, kind queue.NotificationKind, data NotificationEmailData) error
}

// Dispatcher delivers a queued notification over WhatsApp and, when the
// patient has an e-mail, SMTP. Only a WhatsApp failure fails the delivery.
type Dispatcher struct {
	WhatsApp whatsAppChannel
	Email    emailChannel
	Location *time.Location
}

func NewDispatcher(wa whatsAppChannel, email emailChannel, loc *time.Location) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{WhatsApp: wa, Email: email, Location: loc}
}

func (d *Dispatcher) Notify(ctx context.Context, payload queue.NotificationPayload) error {
	data := NotificationEmailData{
		Name:           payload.Name,
		ExpirationDate: payload.ExpirationDate.In(d.Location).Format("02/01/2006"),
		DaysRemaining:  payload.DaysRemaining,
	}

	var waErr error
	if d.WhatsApp != nil {
		waErr = d.WhatsApp.Send(ctx, payload.Kind, payload.Phone, data)
		if errors.Is(waErr, whatsapp.ErrNotConfigured) {
			slog.Warn("whatsapp not configured, skipping", "patient_id", payload.PatientID)
			waErr = nil
		} else {
			middleware.RecordNotification("whatsapp", waErr)
			if waErr != nil {
				middleware.RecordIntegrationError("whatsapp")
			}
		}
	}

	if d.Email != nil && payload.Email != "" {
		err := d.Email.SendNotification(payload.Email, payload.Kind, data)
		middleware.RecordNotification("email", err)
		if err != nil {
			middleware.RecordIntegrationError("smtp")
			slog.Warn("notification e-mail failed", "patient_id", payload.PatientID, "error", err)
		}
	}

	return waErr
}
