package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/talentolocal/backend/internal/model"
	"github.com/talentolocal/backend/internal/processor"
	"github.com/talentolocal/backend/internal/queue"
)

// ApprovedPublisher emits the reservation.approved event that drives
// confirmation email. Satisfied by queue.Publisher.
type ApprovedPublisher interface {
	PublishReservationApproved(ctx context.Context, ev queue.ReservationApprovedEvent) error
}

// Notification is a decoded webhook delivery. Only the event type and
// the payment id are read from the body; any status the sender may have
// embedded is deliberately ignored.
type Notification struct {
	Type      string
	PaymentID string
}

// WebhookService reconciles local reservation state against the
// processor. State machine per payment id: pending → approved or
// pending → failed, terminal once reached, enforced by the store's
// conditional update.
type WebhookService struct {
	processor    Processor
	reservations ReservationStore
	publisher    ApprovedPublisher
}

// NewWebhookService constructs a WebhookService. All dependencies must
// be non-nil.
func NewWebhookService(p Processor, r ReservationStore, pub ApprovedPublisher) *WebhookService {
	if p == nil || r == nil || pub == nil {
		panic("nil dependency passed to NewWebhookService")
	}
	return &WebhookService{processor: p, reservations: r, publisher: pub}
}

// HandleNotification processes one webhook delivery.
//
// Non-payment events are acknowledged and dropped without touching any
// state. For payment events the authoritative status is re-fetched from
// the processor — the notification body is never trusted, so a forged
// or stale webhook cannot advance local state. An approved status is
// applied through the store's atomic pending-check update; only the
// delivery that actually performed the transition publishes the
// notification event, so redelivered webhooks cause at most one
// confirmation email.
//
// A returned error tells the HTTP layer to answer non-2xx so the sender
// redelivers later; the reservation stays pending until a delivery
// succeeds. Publisher failures are logged only: notification delivery
// is decoupled from payment-state correctness and must not trigger
// webhook retries.
func (s *WebhookService) HandleNotification(ctx context.Context, n Notification) error {
	if n.Type != "payment" {
		return nil
	}
	if n.PaymentID == "" {
		// Malformed delivery: redelivering it can never help, so
		// acknowledge and drop.
		log.Printf("webhook: payment notification without payment id dropped")
		return nil
	}

	payment, err := s.processor.GetPayment(ctx, n.PaymentID)
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", n.PaymentID, err)
	}
	if payment.Status != processor.StatusApproved {
		// Only the approved transition is modeled for now; rejected and
		// cancelled payments stay pending until a later mapping to the
		// failed state is added.
		log.Printf("webhook: payment %s status %q ignored", n.PaymentID, payment.Status)
		return nil
	}

	now := time.Now().UTC()
	applied, err := s.reservations.UpdateStateIfPending(ctx, n.PaymentID, model.PaymentStateApproved, &now)
	if err != nil {
		return fmt.Errorf("approve reservation for payment %s: %w", n.PaymentID, err)
	}
	if !applied {
		// Already terminal: redelivered webhook, idempotent no-op.
		log.Printf("webhook: payment %s already reconciled", n.PaymentID)
		return nil
	}
	log.Printf("webhook: payment %s approved", n.PaymentID)

	res, err := s.reservations.FindByPaymentID(ctx, n.PaymentID)
	if err != nil {
		// The transition is committed; losing the event payload only
		// costs the confirmation email, never the state.
		log.Printf("webhook: load reservation for payment %s failed, skipping notification: %v", n.PaymentID, err)
		return nil
	}
	ev := queue.ReservationApprovedEvent{
		ReservationID:   res.ID,
		PaymentID:       res.MPPaymentID,
		TalentID:        res.TalentID,
		ClientID:        res.ClientID,
		GrossCents:      res.GrossCents,
		CommissionCents: res.CommissionCents,
		ApprovedAt:      now.Format(time.RFC3339),
	}
	if res.ServiceDate != nil {
		ev.ServiceDate = *res.ServiceDate
	}
	if res.ServiceTime != nil {
		ev.ServiceTime = *res.ServiceTime
	}
	if err := s.publisher.PublishReservationApproved(ctx, ev); err != nil {
		log.Printf("webhook: publish approval event for payment %s failed: %v", n.PaymentID, err)
	}
	return nil
}
