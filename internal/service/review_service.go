package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/talentolocal/backend/internal/model"
)

// ErrInvalidReview is returned when a review submission is missing a
// required reference or carries a rating outside 1..5. Nothing is
// inserted in that case. Handlers should translate this into an HTTP
// 400 response.
var ErrInvalidReview = errors.New("invalid review")

// ReviewStore is the persistence contract for reviews. Satisfied by
// repository.ReviewRepo.
type ReviewStore interface {
	Insert(ctx context.Context, rv *model.Review) error
	AggregateByTalent(ctx context.Context, talentID uint64) (float64, uint32, error)
}

// RatingSummaryStore writes recomputed rating summaries. Satisfied by
// repository.TalentRepo.
type RatingSummaryStore interface {
	UpdateRatingSummary(ctx context.Context, talentID uint64, avg float64, count uint32) error
}

// ReviewInput carries a review submission from the HTTP boundary.
type ReviewInput struct {
	TalentID      uint64
	ClientID      uint64
	Rating        int
	Comment       string
	ReservationID uint64
}

// ReviewService inserts reviews and keeps the talent rating summary in
// sync by recomputing it from the full review set on every insert.
type ReviewService struct {
	reviews ReviewStore
	talents RatingSummaryStore
}

// NewReviewService constructs a ReviewService. Both dependencies must
// be non-nil.
func NewReviewService(rv ReviewStore, t RatingSummaryStore) *ReviewService {
	if rv == nil || t == nil {
		panic("nil dependency passed to NewReviewService")
	}
	return &ReviewService{reviews: rv, talents: t}
}

// Submit validates and inserts a review, then recomputes the talent's
// rating_average and rating_count from the full review set.
//
// If the recompute fails after the insert succeeded, the review is kept
// (it is already durable) and the summary stays stale until the next
// submission recomputes it. That eventual-consistency window is logged,
// not hidden, and not surfaced as a request failure.
func (s *ReviewService) Submit(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if in.TalentID == 0 || in.ClientID == 0 || in.ReservationID == 0 {
		return nil, ErrInvalidReview
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidReview
	}

	rv := &model.Review{
		ID:            uuid.NewString(),
		TalentID:      in.TalentID,
		ClientID:      in.ClientID,
		Rating:        in.Rating,
		Comment:       in.Comment,
		ReservationID: in.ReservationID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.reviews.Insert(ctx, rv); err != nil {
		return nil, err
	}

	avg, count, err := s.reviews.AggregateByTalent(ctx, in.TalentID)
	if err != nil {
		log.Printf("reviews: review %s saved but rating recompute failed for talent %d: %v", rv.ID, in.TalentID, err)
		return rv, nil
	}
	if err := s.talents.UpdateRatingSummary(ctx, in.TalentID, avg, count); err != nil {
		log.Printf("reviews: review %s saved but summary write failed for talent %d: %v", rv.ID, in.TalentID, err)
		return rv, nil
	}
	return rv, nil
}
