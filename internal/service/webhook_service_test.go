package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentolocal/backend/internal/model"
	"github.com/talentolocal/backend/internal/processor"
	"github.com/talentolocal/backend/internal/repository"
)

func seedPending(store *fakeReservationStore, paymentID string) {
	clientID := uint64(11)
	date := "2026-09-20"
	tm := "15:00"
	store.nextID++
	store.byPayment[paymentID] = &model.Reservation{
		ID:              store.nextID,
		MPPaymentID:     paymentID,
		ClientID:        &clientID,
		TalentID:        7,
		GrossCents:      1000,
		CommissionCents: 50,
		PaymentState:    model.PaymentStatePending,
		ServiceDate:     &date,
		ServiceTime:     &tm,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestNonPaymentEventIsDroppedWithoutStateAccess(t *testing.T) {
	proc := &fakeProcessor{}
	store := newFakeReservationStore()
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	err := svc.HandleNotification(context.Background(), Notification{Type: "plan", PaymentID: "55"})
	require.NoError(t, err)
	assert.Equal(t, 0, proc.getCalls, "non-payment events must not hit the processor")
	assert.Empty(t, pub.events)
}

func TestApprovedPaymentTransitionsAndNotifiesOnce(t *testing.T) {
	proc := &fakeProcessor{
		getFn: func(id string) (*processor.Payment, error) {
			return &processor.Payment{ID: id, Status: processor.StatusApproved}, nil
		},
	}
	store := newFakeReservationStore()
	seedPending(store, "55")
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	err := svc.HandleNotification(context.Background(), Notification{Type: "payment", PaymentID: "55"})
	require.NoError(t, err)

	res := store.byPayment["55"]
	assert.Equal(t, model.PaymentStateApproved, res.PaymentState)
	assert.NotNil(t, res.ApprovedAt)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, "55", ev.PaymentID)
	assert.Equal(t, uint64(7), ev.TalentID)
	assert.Equal(t, int64(1000), ev.GrossCents)
	assert.Equal(t, int64(50), ev.CommissionCents)
	assert.Equal(t, "2026-09-20", ev.ServiceDate)
	assert.Equal(t, "15:00", ev.ServiceTime)
}

func TestRedeliveredWebhookIsIdempotent(t *testing.T) {
	proc := &fakeProcessor{
		getFn: func(id string) (*processor.Payment, error) {
			return &processor.Payment{ID: id, Status: processor.StatusApproved}, nil
		},
	}
	store := newFakeReservationStore()
	seedPending(store, "55")
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	n := Notification{Type: "payment", PaymentID: "55"}
	require.NoError(t, svc.HandleNotification(context.Background(), n))
	require.NoError(t, svc.HandleNotification(context.Background(), n))

	assert.Equal(t, 1, store.transitions, "exactly one state transition")
	assert.Len(t, pub.events, 1, "at most one notification dispatch")
}

func TestWebhookBodyStatusIsNeverTrusted(t *testing.T) {
	// The sender claims approval, but the processor still reports the
	// payment as pending. The notification carries no status at all by
	// construction; the re-fetch governs, so no transition happens.
	proc := &fakeProcessor{
		getFn: func(id string) (*processor.Payment, error) {
			return &processor.Payment{ID: id, Status: processor.StatusPending}, nil
		},
	}
	store := newFakeReservationStore()
	seedPending(store, "55")
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	err := svc.HandleNotification(context.Background(), Notification{Type: "payment", PaymentID: "55"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatePending, store.byPayment["55"].PaymentState)
	assert.Empty(t, pub.events)
}

func TestTerminalStateIsMonotonic(t *testing.T) {
	proc := &fakeProcessor{
		getFn: func(id string) (*processor.Payment, error) {
			return &processor.Payment{ID: id, Status: processor.StatusApproved}, nil
		},
	}
	store := newFakeReservationStore()
	seedPending(store, "55")
	store.byPayment["55"].PaymentState = model.PaymentStateFailed
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	err := svc.HandleNotification(context.Background(), Notification{Type: "payment", PaymentID: "55"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStateFailed, store.byPayment["55"].PaymentState,
		"a terminal state never changes, regardless of further notifications")
	assert.Empty(t, pub.events)
}

func TestUnknownPaymentRequestsRedelivery(t *testing.T) {
	proc := &fakeProcessor{
		getFn: func(id string) (*processor.Payment, error) {
			return &processor.Payment{ID: id, Status: processor.StatusApproved}, nil
		},
	}
	store := newFakeReservationStore()
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	// The webhook can outrun reservation persistence; failing the
	// acknowledgement makes the sender retry once the row exists.
	err := svc.HandleNotification(context.Background(), Notification{Type: "payment", PaymentID: "99"})
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestProcessorFetchFailureRequestsRedelivery(t *testing.T) {
	proc := &fakeProcessor{
		getFn: func(string) (*processor.Payment, error) {
			return nil, errors.New("timeout")
		},
	}
	store := newFakeReservationStore()
	seedPending(store, "55")
	pub := &fakePublisher{}
	svc := NewWebhookService(proc, store, pub)

	err := svc.HandleNotification(context.Background(), Notification{Type: "payment", PaymentID: "55"})
	assert.Error(t, err)
	assert.Equal(t, model.PaymentStatePending, store.byPayment["55"].PaymentState,
		"reservation stays pending until a successful reconciliation")
}

func TestPublisherFailureDoesNotFailAcknowledgement(t *testing.T) {
	proc := &fakeProcessor{
		getFn: func(id string) (*processor.Payment, error) {
			return &processor.Payment{ID: id, Status: processor.StatusApproved}, nil
		},
	}
	store := newFakeReservationStore()
	seedPending(store, "55")
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewWebhookService(proc, store, pub)

	err := svc.HandleNotification(context.Background(), Notification{Type: "payment", PaymentID: "55"})
	require.NoError(t, err, "notification delivery is decoupled from payment-state correctness")
	assert.Equal(t, model.PaymentStateApproved, store.byPayment["55"].PaymentState)
}
