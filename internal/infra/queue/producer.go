package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type NotificationKind string

const (
	KindActivation      NotificationKind = "ACTIVATION"
	KindRenewal         NotificationKind = "RENEWAL"
	KindRenewalReminder NotificationKind = "RENEWAL_REMINDER"
)

type NotificationPayload struct {
	Kind           NotificationKind `json:"kind"`
	PatientID      string           `json:"patient_id"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email,omitempty"`
	ExpirationDate time.Time        `json:"expiration_date"`
	DaysRemaining  int              `json:"days_remaining"`
	Origin         string           `json:"origin"`
}

type QueueProducerInterface interface {
	PublishNotification(ctx context.Context, payload NotificationPayload) error
}

// channelPublisher is the part of *amqp.Channel the producer needs.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch channelPublisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         string(payload.Kind),
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
