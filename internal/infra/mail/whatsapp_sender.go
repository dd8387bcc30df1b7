package mail

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xavierca1/ligue-convenios/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
)

type messageSender interface {
	SendMessage(ctx context.Context, input whatsapp.SendMessageInput) (string, error)
}

// WhatsAppTemplates holds the approved template name for each kind.
type WhatsAppTemplates struct {
	Activation string
	Renewal    string
	Reminder   string
}

type WhatsAppSender struct {
	client    messageSender
	templates WhatsAppTemplates
}

func NewWhatsAppSender(client messageSender, templates WhatsAppTemplates) *WhatsAppSender {
	return &WhatsAppSender{
		client:    client,
		templates: templates,
	}
}

// Send uses the template parameters {{1}} name, {{2}} expiration date and,
// for reminders, {{3}} days remaining.
func (s *WhatsAppSender) Send(ctx context.Context, kind queue.NotificationKind, phone string, data NotificationEmailData) error {
	input := whatsapp.SendMessageInput{
		PhoneNumber: phone,
		Parameters:  []string{data.Name, data.ExpirationDate},
	}

	switch kind {
	case queue.KindActivation:
		input.TemplateName = s.templates.Activation
	case queue.KindRenewal:
		input.TemplateName = s.templates.Renewal
	case queue.KindRenewalReminder:
		input.TemplateName = s.templates.Reminder
		input.Parameters = append(input.Parameters, strconv.Itoa(data.DaysRemaining))
	default:
		return fmt.Errorf("whatsapp: tipo de notificação desconhecido %s", kind)
	}

	if input.TemplateName == "" {
		return fmt.Errorf("whatsapp: template não configurado para %s", kind)
	}

	_, err := s.client.SendMessage(ctx, input)
	return err
}
