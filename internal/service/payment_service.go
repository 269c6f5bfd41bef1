// Package service implements the payment reconciliation core: charge
// initiation, webhook reconciliation and review aggregation. External
// collaborators (processor client, stores, event publisher) are
// injected as interfaces so tests can substitute in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/talentolocal/backend/internal/commission"
	"github.com/talentolocal/backend/internal/model"
	"github.com/talentolocal/backend/internal/processor"
)

// DefaultPayerEmail is used when a charge request does not carry a
// payer email. This is an explicit documented fallback (the processor
// requires a payer), not a silent default: the reservation itself never
// stores it.
const DefaultPayerEmail = "test_user@test.com"

// ErrSubmissionFailed wraps a processor rejection of a charge. No
// reservation record is created in that case; handlers report a
// generic processing error and log the diagnostic payload.
var ErrSubmissionFailed = errors.New("payment submission failed")

// ErrPersistFailed wraps a store failure after the charge was already
// accepted by the processor. The charge is never retracted; the
// condition is reportable so callers and operators can reconcile
// manually.
var ErrPersistFailed = errors.New("reservation persist failed")

// Processor is the payment gateway surface the core depends on.
// Satisfied by processor.Client.
type Processor interface {
	CreatePayment(ctx context.Context, req processor.ChargeRequest) (*processor.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*processor.Payment, error)
}

// ReservationStore is the persistence contract for reservations.
// Satisfied by repository.ReservationRepo.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	UpdateStateIfPending(ctx context.Context, paymentID, newState string, approvedAt *time.Time) (bool, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Reservation, error)
}

// ChargeInput carries a validated-enough charge request from the HTTP
// boundary. Zero Installments means 1; empty PayerEmail falls back to
// DefaultPayerEmail.
type ChargeInput struct {
	GrossCents      int64
	Token           string
	PaymentMethodID string
	Installments    int
	PayerEmail      string
	TalentID        uint64
	ClientID        *uint64
	ServiceDate     *string
	ServiceTime     *string
}

// ChargeResult reports the processor's answer to the caller: the
// assigned payment id and the initial status, which may already be
// "approved" for instant payment methods.
type ChargeResult struct {
	Status    string
	PaymentID string
}

// PaymentService submits charges to the processor and records the
// resulting reservation in the escrow ledger.
type PaymentService struct {
	processor    Processor
	reservations ReservationStore
}

// NewPaymentService constructs a PaymentService. Both dependencies must
// be non-nil.
func NewPaymentService(p Processor, r ReservationStore) *PaymentService {
	if p == nil || r == nil {
		panic("nil dependency passed to NewPaymentService")
	}
	return &PaymentService{processor: p, reservations: r}
}

// Initiate validates the charge, submits it to the processor and
// records a reservation with the commission withheld.
//
// On processor rejection no record is created and the error wraps
// ErrSubmissionFailed. On store failure after an accepted charge the
// returned ChargeResult still carries the processor status and payment
// id (the charge exists regardless) and the error wraps
// ErrPersistFailed.
func (s *PaymentService) Initiate(ctx context.Context, in ChargeInput) (*ChargeResult, error) {
	fee, err := commission.Calculate(in.GrossCents)
	if err != nil {
		return nil, err
	}
	installments := in.Installments
	if installments <= 0 {
		installments = 1
	}
	payerEmail := in.PayerEmail
	if payerEmail == "" {
		payerEmail = DefaultPayerEmail
	}

	payment, err := s.processor.CreatePayment(ctx, processor.ChargeRequest{
		TransactionAmountCents: in.GrossCents,
		Token:                  in.Token,
		Description:            fmt.Sprintf("Servicio en Talento Local - Talent ID: %d", in.TalentID),
		PaymentMethodID:        in.PaymentMethodID,
		Installments:           installments,
		PayerEmail:             payerEmail,
		ApplicationFeeCents:    fee,
		IdempotencyKey:         uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	res := &model.Reservation{
		MPPaymentID:     payment.ID,
		ClientID:        in.ClientID,
		TalentID:        in.TalentID,
		GrossCents:      in.GrossCents,
		CommissionCents: fee,
		PaymentState:    mapInitialState(payment.Status),
		ServiceDate:     in.ServiceDate,
		ServiceTime:     in.ServiceTime,
	}
	if res.PaymentState == model.PaymentStateApproved {
		now := time.Now().UTC()
		res.ApprovedAt = &now
	}
	result := &ChargeResult{Status: payment.Status, PaymentID: payment.ID}
	if err := s.reservations.Create(ctx, res); err != nil {
		log.Printf("payments: reservation persist failed for payment %s: %v", payment.ID, err)
		return result, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return result, nil
}

// mapInitialState maps the processor's initial payment status onto the
// local state enum. Instant methods can come back approved right away;
// an immediate rejection lands as failed; everything else (pending,
// in_process, unknown future statuses) starts pending and waits for the
// webhook reconciler.
func mapInitialState(status string) string {
	switch status {
	case processor.StatusApproved:
		return model.PaymentStateApproved
	case processor.StatusRejected, processor.StatusCancelled:
		return model.PaymentStateFailed
	default:
		return model.PaymentStatePending
	}
}
