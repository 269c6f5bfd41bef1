package repository

import (
	"context"
	"database/sql"

	"github.com/talentolocal/backend/internal/model"
)

// TalentRepo manages talent profiles and their derived rating summary.
// The summary columns (rating_average, rating_count) are owned by the
// talents table but derived from reviews; they are only ever written by
// a full recompute, never incremented in place.
type TalentRepo struct{ db *sql.DB }

// NewTalentRepo returns a new TalentRepo bound to the given database.
func NewTalentRepo(db *sql.DB) *TalentRepo { return &TalentRepo{db: db} }

// GetByID fetches a talent profile by id. Returns ErrTalentNotFound
// when no profile exists.
func (r *TalentRepo) GetByID(ctx context.Context, id uint64) (*model.Talent, error) {
	const q = `SELECT id, user_id, display_name, rating_average, rating_count, created_at
	           FROM talents WHERE id = ? LIMIT 1`
	var t model.Talent
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.UserID, &t.DisplayName, &t.RatingAverage, &t.RatingCount, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTalentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// OwnerEmail resolves the email address of the user owning the talent
// profile. Talents are a sub-profile of a user identity, so
// notifications for a talent are addressed to the owning account.
func (r *TalentRepo) OwnerEmail(ctx context.Context, talentID uint64) (string, error) {
	const q = `SELECT u.email FROM talents t JOIN users u ON u.id = t.user_id WHERE t.id = ?`
	var email string
	err := r.db.QueryRowContext(ctx, q, talentID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", ErrTalentNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

// UpdateRatingSummary writes a freshly recomputed rating average and
// count to the talent row. Callers must derive both values from the
// full review set of the talent.
func (r *TalentRepo) UpdateRatingSummary(ctx context.Context, talentID uint64, avg float64, count uint32) error {
	const q = `UPDATE talents SET rating_average = ?, rating_count = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, avg, count, talentID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also zero when the values did not change, so
		// confirm the talent actually exists before reporting not-found.
		const sel = `SELECT 1 FROM talents WHERE id = ? LIMIT 1`
		var one int
		if err := r.db.QueryRowContext(ctx, sel, talentID).Scan(&one); err == sql.ErrNoRows {
			return ErrTalentNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}
