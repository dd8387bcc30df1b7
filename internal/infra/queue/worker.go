package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier delivers one notification to the patient (WhatsApp, e-mail, ...).
type Notifier interface {
	Notify(ctx context.Context, payload NotificationPayload) error
}

// acknowledger is the part of amqp.Delivery the worker calls.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
}

func NewWorker(ch *amqp.Channel, notifier Notifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	slog.Info("notification worker waiting", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			slog.Info("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handle(ctx, d.Body, &d)
		}
	}
}

// handle acks on success. Malformed messages and delivery failures are
// rejected without requeue, which routes them to the DLQ.
func (w *Worker) handle(ctx context.Context, body []byte, ack acknowledger) {
	var payload NotificationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Error("worker: invalid notification JSON", "error", err)
		ack.Nack(false, false)
		return
	}

	if err := w.processMessage(ctx, payload); err != nil {
		slog.Error("worker: notification failed",
			"kind", payload.Kind, "patient_id", payload.PatientID, "error", err)
		ack.Nack(false, false)
		return
	}

	slog.Info("worker: notification delivered", "kind", payload.Kind, "patient_id", payload.PatientID)
	ack.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, payload NotificationPayload) error {
	switch payload.Kind {
	case KindActivation, KindRenewal, KindRenewalReminder:
		return w.Notifier.Notify(ctx, payload)
	default:
		// Unknown kinds are acked so they do not pile up in the DLQ.
		slog.Warn("worker: unknown notification kind, skipping", "kind", payload.Kind)
		return nil
	}
}
