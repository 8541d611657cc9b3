package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const BookingConfirmedQueue = "booking.confirmed"

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
}

type amqpPublisher struct {
	url   string
	queue string
	log   *zap.Logger
}

// NewPublisher returns an AMQP publisher, or a no-op publisher when url is empty.
func NewPublisher(url, queueName string, log *zap.Logger) Publisher {
	log = log.With(zap.String("component", "queue"))
	if url == "" {
		log.Info("Message broker not configured, booking events disabled")
		return noopPublisher{}
	}
	if queueName == "" {
		queueName = BookingConfirmedQueue
	}
	return &amqpPublisher{url: url, queue: queueName, log: log}
}

// PublishBookingConfirmed opens a short-lived connection, declares the
// durable queue and publishes a persistent JSON message.
func (p *amqpPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event %s: %w", event.BookingID, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish booking event %s: %w", event.BookingID, err)
	}

	p.log.Debug("Booking event published",
		zap.String("booking_id", event.BookingID),
		zap.String("queue", p.queue),
	)
	return nil
}

type noopPublisher struct{}

func (noopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmedEvent) error {
	return nil
}
