package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const confirmedQueueName = "reservation.confirmed"

// Publisher emits reservation events to RabbitMQ.  A connection is
// dialed per publish; confirmations are rare enough that holding a
// channel open buys nothing and reconnect handling stays trivial.
// Errors are logged and returned so callers can ignore failures without
// interrupting the request flow.
type Publisher struct {
	url string
}

// NewPublisher returns a publisher targeting the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishReservationConfirmed publishes ev to the durable
// reservation.confirmed queue with persistent delivery.
func (p *Publisher) PublishReservationConfirmed(ctx context.Context, ev ReservationConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
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

	// Declaring the queue is idempotent; durable so confirmations
	// survive broker restarts.
	if _, err := ch.QueueDeclare(confirmedQueueName, true, false, false, false, nil); err != nil {
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
	if err := ch.PublishWithContext(ctx, "", confirmedQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
