package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/meeting-room-reservation/internal/queue"
)

// QueueNotifier publishes booking events to RabbitMQ. It dials per
// publish and never panics; every error is logged and returned so the
// caller can treat delivery as best-effort. Messages are persistent,
// so they survive a broker restart once accepted.
type QueueNotifier struct {
	url string
}

// NewQueueNotifier returns a notifier for the given AMQP URL, or nil
// when the URL is empty (event publishing disabled).
func NewQueueNotifier(url string) *QueueNotifier {
	if url == "" {
		return nil
	}
	return &QueueNotifier{url: url}
}

// Publish marshals the event and delivers it to the booking.events
// queue, declaring the queue idempotently first.
func (n *QueueNotifier) Publish(ctx context.Context, ev queue.BookingEvent) error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.QueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		queue.QueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
