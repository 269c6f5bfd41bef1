package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/talentolocal/backend/internal/model"
)

// ReviewRepo persists reviews and aggregates them per talent. Reviews
// are immutable once inserted.
type ReviewRepo struct{ db *sql.DB }

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Insert stores a new review. The caller assigns the id and timestamp.
// A duplicate id collides on the primary key and surfaces as a plain
// database error since ids are generated, never user-supplied.
func (r *ReviewRepo) Insert(ctx context.Context, rv *model.Review) error {
	const q = `INSERT INTO reviews (id, talent_id, client_id, rating, comment, reservation_id, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	var comment interface{}
	if strings.TrimSpace(rv.Comment) != "" {
		comment = rv.Comment
	}
	_, err := r.db.ExecContext(ctx, q,
		rv.ID, rv.TalentID, rv.ClientID, rv.Rating, comment, rv.ReservationID, rv.CreatedAt.UTC(),
	)
	return err
}

// AggregateByTalent reads the full current review set of a talent and
// returns the mean rating and review count. Recomputing from source on
// every insert (instead of keeping a running accumulator) means a
// partially failed earlier update can never leave the summary drifting:
// the next successful recompute is always correct.
func (r *ReviewRepo) AggregateByTalent(ctx context.Context, talentID uint64) (float64, uint32, error) {
	const q = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE talent_id = ?`
	var avg float64
	var count uint32
	if err := r.db.QueryRowContext(ctx, q, talentID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
