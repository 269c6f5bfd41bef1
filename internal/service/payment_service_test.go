package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentolocal/backend/internal/commission"
	"github.com/talentolocal/backend/internal/model"
	"github.com/talentolocal/backend/internal/processor"
)

func TestInitiateRejectsNonPositiveAmount(t *testing.T) {
	proc := &fakeProcessor{}
	store := newFakeReservationStore()
	svc := NewPaymentService(proc, store)

	for _, gross := range []int64{0, -500} {
		result, err := svc.Initiate(context.Background(), ChargeInput{GrossCents: gross, TalentID: 7})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, commission.ErrInvalidAmount)
	}
	assert.Equal(t, 0, proc.createCalls, "rejected amounts must never reach the processor")
	assert.Empty(t, store.byPayment)
}

func TestInitiateRecordsPendingReservation(t *testing.T) {
	proc := &fakeProcessor{
		createFn: func(req processor.ChargeRequest) (*processor.Payment, error) {
			return &processor.Payment{ID: "987654", Status: processor.StatusInProcess}, nil
		},
	}
	store := newFakeReservationStore()
	svc := NewPaymentService(proc, store)

	clientID := uint64(11)
	date := "2026-09-20"
	result, err := svc.Initiate(context.Background(), ChargeInput{
		GrossCents:      1000,
		Token:           "card-token",
		PaymentMethodID: "visa",
		TalentID:        7,
		ClientID:        &clientID,
		ServiceDate:     &date,
	})
	require.NoError(t, err)
	assert.Equal(t, "987654", result.PaymentID)
	assert.Equal(t, processor.StatusInProcess, result.Status)

	// Commission: round-half-up of 5% of 1000 = 50, withheld as the
	// processor application fee and recorded on the reservation.
	assert.Equal(t, int64(50), proc.lastCreate.ApplicationFeeCents)
	assert.Equal(t, 1, proc.lastCreate.Installments, "installments default to 1")
	assert.Equal(t, DefaultPayerEmail, proc.lastCreate.PayerEmail, "payer email falls back to the documented placeholder")
	assert.NotEmpty(t, proc.lastCreate.IdempotencyKey)

	res := store.byPayment["987654"]
	require.NotNil(t, res)
	assert.Equal(t, model.PaymentStatePending, res.PaymentState, "in_process maps to pending, not approved")
	assert.Equal(t, int64(50), res.CommissionCents)
	assert.Equal(t, uint64(7), res.TalentID)
	require.NotNil(t, res.ClientID)
	assert.Equal(t, uint64(11), *res.ClientID)
	assert.Nil(t, res.ApprovedAt)
}

func TestInitiateInstantApproval(t *testing.T) {
	proc := &fakeProcessor{
		createFn: func(processor.ChargeRequest) (*processor.Payment, error) {
			return &processor.Payment{ID: "42", Status: processor.StatusApproved}, nil
		},
	}
	store := newFakeReservationStore()
	svc := NewPaymentService(proc, store)

	result, err := svc.Initiate(context.Background(), ChargeInput{GrossCents: 200, TalentID: 1})
	require.NoError(t, err)
	assert.Equal(t, processor.StatusApproved, result.Status)

	res := store.byPayment["42"]
	require.NotNil(t, res)
	assert.Equal(t, model.PaymentStateApproved, res.PaymentState)
	assert.NotNil(t, res.ApprovedAt, "instant approval sets the approval timestamp at creation")
}

func TestInitiateImmediateRejectionMapsToFailed(t *testing.T) {
	proc := &fakeProcessor{
		createFn: func(processor.ChargeRequest) (*processor.Payment, error) {
			return &processor.Payment{ID: "43", Status: processor.StatusRejected}, nil
		},
	}
	store := newFakeReservationStore()
	svc := NewPaymentService(proc, store)

	result, err := svc.Initiate(context.Background(), ChargeInput{GrossCents: 200, TalentID: 1})
	require.NoError(t, err)
	assert.Equal(t, processor.StatusRejected, result.Status)
	assert.Equal(t, model.PaymentStateFailed, store.byPayment["43"].PaymentState)
}

func TestInitiateProcessorRejectionCreatesNoRecord(t *testing.T) {
	proc := &fakeProcessor{
		createFn: func(processor.ChargeRequest) (*processor.Payment, error) {
			return nil, &processor.RejectionError{StatusCode: 400, Body: `{"message":"invalid token"}`}
		},
	}
	store := newFakeReservationStore()
	svc := NewPaymentService(proc, store)

	result, err := svc.Initiate(context.Background(), ChargeInput{GrossCents: 1000, TalentID: 7})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Empty(t, store.byPayment, "a rejected charge must not leave a reservation behind")
}

func TestInitiatePersistFailureStillReportsCharge(t *testing.T) {
	proc := &fakeProcessor{
		createFn: func(processor.ChargeRequest) (*processor.Payment, error) {
			return &processor.Payment{ID: "77", Status: processor.StatusPending}, nil
		},
	}
	store := newFakeReservationStore()
	store.createErr = errors.New("connection refused")
	svc := NewPaymentService(proc, store)

	result, err := svc.Initiate(context.Background(), ChargeInput{GrossCents: 300, TalentID: 2})
	assert.ErrorIs(t, err, ErrPersistFailed)
	// The charge exists at the processor regardless of the store, so the
	// result still carries the processor truth.
	require.NotNil(t, result)
	assert.Equal(t, "77", result.PaymentID)
	assert.Equal(t, processor.StatusPending, result.Status)
}

func TestInitiateDuplicatePaymentIDKeepsExistingRecord(t *testing.T) {
	proc := &fakeProcessor{
		createFn: func(processor.ChargeRequest) (*processor.Payment, error) {
			return &processor.Payment{ID: "55", Status: processor.StatusPending}, nil
		},
	}
	store := newFakeReservationStore()
	svc := NewPaymentService(proc, store)

	_, err := svc.Initiate(context.Background(), ChargeInput{GrossCents: 400, TalentID: 3})
	require.NoError(t, err)
	original := *store.byPayment["55"]

	_, err = svc.Initiate(context.Background(), ChargeInput{GrossCents: 9999, TalentID: 3})
	assert.ErrorIs(t, err, ErrPersistFailed)
	assert.Equal(t, original, *store.byPayment["55"], "duplicate create must not overwrite the existing row")
}
