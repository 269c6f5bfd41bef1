package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/talentolocal/backend/internal/model"
)

// TalentDirectory resolves the contact address of a talent's owning
// user. Satisfied by repository.TalentRepo.
type TalentDirectory interface {
	OwnerEmail(ctx context.Context, talentID uint64) (string, error)
}

// UserDirectory resolves user accounts for client contact addresses.
// Satisfied by repository.UserRepo.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// ConfirmationSender sends the confirmation message for an approved
// reservation. Satisfied by mailer.SMTP.
type ConfirmationSender interface {
	SendReservationConfirmed(to []string, serviceDate, serviceTime string) error
}

// NotificationConsumer consumes reservation.approved events and sends a
// single confirmation email to the client and the talent's owning user.
// Notification is strictly best-effort: a failure here is logged and
// the message dropped, never escalated back into the payment flow.
type NotificationConsumer struct {
	URL     string
	Talents TalentDirectory
	Users   UserDirectory
	Sender  ConfirmationSender
}

// Start connects to RabbitMQ, declares the reservation.approved queue
// (durable), and starts consuming messages. It runs a reconnect loop
// with exponential backoff and keeps running indefinitely; processing
// errors are logged and the offending message is rejected without
// requeue so a poison message cannot loop forever.
func (nc *NotificationConsumer) Start() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(nc.URL)
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := nc.consumeLoop(conn); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func (nc *NotificationConsumer) consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(approvedQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(approvedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := nc.handleMessage(d.Body); err != nil {
			log.Printf("notification-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// handleMessage resolves both recipients and sends one confirmation
// mail. A client id that no longer resolves is skipped rather than
// failing the whole message; having no resolvable recipient at all is
// an error so the miss shows up in logs.
func (nc *NotificationConsumer) handleMessage(body []byte) error {
	var ev ReservationApprovedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipients := make([]string, 0, 2)
	if ev.ClientID != nil {
		if u, err := nc.Users.GetByID(ctx, *ev.ClientID); err != nil {
			log.Printf("notification-consumer: client %d lookup failed: %v", *ev.ClientID, err)
		} else {
			recipients = append(recipients, u.Email)
		}
	}
	talentEmail, err := nc.Talents.OwnerEmail(ctx, ev.TalentID)
	if err != nil {
		log.Printf("notification-consumer: talent %d owner lookup failed: %v", ev.TalentID, err)
	} else {
		recipients = append(recipients, talentEmail)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no resolvable recipients for reservation %d (payment %s)", ev.ReservationID, ev.PaymentID)
	}

	if err := nc.Sender.SendReservationConfirmed(recipients, ev.ServiceDate, ev.ServiceTime); err != nil {
		return fmt.Errorf("send confirmation for payment %s: %w", ev.PaymentID, err)
	}
	log.Printf("notification-consumer: confirmation sent for payment %s to %d recipient(s)", ev.PaymentID, len(recipients))
	return nil
}
