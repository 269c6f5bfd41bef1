package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const approvedQueueName = "reservation.approved"

// Publisher publishes domain events to RabbitMQ. Errors are logged and
// returned so callers can ignore failures without interrupting the main
// request flow: a flaky broker must never turn an already committed
// payment-state transition into a webhook error.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the broker at the given
// AMQP URL on each publish.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishReservationApproved publishes a ReservationApprovedEvent to
// the "reservation.approved" queue. The function attempts to be robust
// and to never panic; any error is logged and returned so the caller
// can choose to ignore it. Messages are marked as persistent.
func (p *Publisher) PublishReservationApproved(ctx context.Context, event ReservationApprovedEvent) error {
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

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		approvedQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		approvedQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
