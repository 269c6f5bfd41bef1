package repository

import (
	"context"
	"database/sql"

	"github.com/talentolocal/backend/internal/model"
)

// UserRepo reads user accounts. The reconciliation core only needs
// users for contact resolution: confirmation email goes to the client's
// address and to the address of the user owning the talent profile.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID fetches a user by id. Returns ErrUserNotFound when the id
// does not resolve to an account.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, email, full_name, created_at FROM users WHERE id = ? LIMIT 1`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
