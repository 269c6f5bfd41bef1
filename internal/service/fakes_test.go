package service

import (
	"context"
	"errors"
	"time"

	"github.com/talentolocal/backend/internal/model"
	"github.com/talentolocal/backend/internal/processor"
	"github.com/talentolocal/backend/internal/queue"
	"github.com/talentolocal/backend/internal/repository"
)

// fakeProcessor substitutes the payments API client. Each call is
// recorded so tests can assert on what was submitted.
type fakeProcessor struct {
	createFn    func(req processor.ChargeRequest) (*processor.Payment, error)
	getFn       func(paymentID string) (*processor.Payment, error)
	createCalls int
	getCalls    int
	lastCreate  processor.ChargeRequest
}

func (f *fakeProcessor) CreatePayment(_ context.Context, req processor.ChargeRequest) (*processor.Payment, error) {
	f.createCalls++
	f.lastCreate = req
	if f.createFn == nil {
		return &processor.Payment{ID: "1", Status: processor.StatusPending}, nil
	}
	return f.createFn(req)
}

func (f *fakeProcessor) GetPayment(_ context.Context, paymentID string) (*processor.Payment, error) {
	f.getCalls++
	if f.getFn == nil {
		return nil, errors.New("no payment configured")
	}
	return f.getFn(paymentID)
}

// fakeReservationStore is an in-memory ReservationStore with the same
// conditional-update semantics as the MySQL repository: the transition
// applies only when the current state is pending, a repeated update is
// a no-op, and an unknown payment id is ErrReservationNotFound.
type fakeReservationStore struct {
	byPayment   map[string]*model.Reservation
	nextID      uint64
	createErr   error
	updateErr   error
	findErr     error
	transitions int
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{byPayment: map[string]*model.Reservation{}}
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byPayment[res.MPPaymentID]; ok {
		return repository.ErrDuplicatePaymentID
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now().UTC()
	cp := *res
	f.byPayment[res.MPPaymentID] = &cp
	return nil
}

func (f *fakeReservationStore) UpdateStateIfPending(_ context.Context, paymentID, newState string, approvedAt *time.Time) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	res, ok := f.byPayment[paymentID]
	if !ok {
		return false, repository.ErrReservationNotFound
	}
	if res.PaymentState != model.PaymentStatePending {
		return false, nil
	}
	res.PaymentState = newState
	res.ApprovedAt = approvedAt
	f.transitions++
	return true, nil
}

func (f *fakeReservationStore) FindByPaymentID(_ context.Context, paymentID string) (*model.Reservation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	res, ok := f.byPayment[paymentID]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

// fakePublisher records published approval events.
type fakePublisher struct {
	events []queue.ReservationApprovedEvent
	err    error
}

func (f *fakePublisher) PublishReservationApproved(_ context.Context, ev queue.ReservationApprovedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

// fakeReviewStore keeps reviews in memory and aggregates like the SQL
// repository: AVG and COUNT over the talent's full review set.
type fakeReviewStore struct {
	reviews   []model.Review
	insertErr error
	aggErr    error
}

func (f *fakeReviewStore) Insert(_ context.Context, rv *model.Review) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.reviews = append(f.reviews, *rv)
	return nil
}

func (f *fakeReviewStore) AggregateByTalent(_ context.Context, talentID uint64) (float64, uint32, error) {
	if f.aggErr != nil {
		return 0, 0, f.aggErr
	}
	var sum int
	var count uint32
	for _, rv := range f.reviews {
		if rv.TalentID == talentID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// fakeTalentStore records written rating summaries.
type fakeTalentStore struct {
	avg       map[uint64]float64
	count     map[uint64]uint32
	updateErr error
	updates   int
}

func newFakeTalentStore() *fakeTalentStore {
	return &fakeTalentStore{avg: map[uint64]float64{}, count: map[uint64]uint32{}}
}

func (f *fakeTalentStore) UpdateRatingSummary(_ context.Context, talentID uint64, avg float64, count uint32) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.avg[talentID] = avg
	f.count[talentID] = count
	f.updates++
	return nil
}
