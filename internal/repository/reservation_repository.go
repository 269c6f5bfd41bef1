package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/talentolocal/backend/internal/model"
)

// ReservationRepo persists escrowed reservations keyed by the
// processor-assigned payment id. Rows are append-only: a reservation
// is inserted once by the payment initiator and moved into a terminal
// payment state at most once by the webhook reconciler. All timestamp
// fields are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a new reservation and populates the generated ID and
// CreatedAt on the provided record. The mp_payment_id column carries a
// unique index, so a second submission for the same processor payment
// returns ErrDuplicatePaymentID and leaves the existing row untouched.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (mp_payment_id, client_id, talent_id, gross_cents, commission_cents, payment_state, service_date, service_time, approved_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var clientID interface{}
	if res.ClientID != nil {
		clientID = *res.ClientID
	}
	var svcDate, svcTime interface{}
	if res.ServiceDate != nil {
		svcDate = *res.ServiceDate
	}
	if res.ServiceTime != nil {
		svcTime = *res.ServiceTime
	}
	var approvedAt interface{}
	if res.ApprovedAt != nil {
		approvedAt = res.ApprovedAt.UTC()
	}
	result, err := r.db.ExecContext(ctx, q,
		res.MPPaymentID, clientID, res.TalentID,
		res.GrossCents, res.CommissionCents, res.PaymentState,
		svcDate, svcTime, approvedAt,
	)
	if err != nil {
		// MySQL error 1062 = duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicatePaymentID
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the created_at default assigned by the database.
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// UpdateStateIfPending atomically moves the reservation for paymentID
// from the pending state into newState. The state precondition lives in
// the WHERE clause, so two concurrently delivered duplicate webhooks
// cannot both apply the transition: the database serializes them and
// only one UPDATE touches the row.
//
// The returned bool reports whether this call performed the transition.
// A reservation already in a terminal state yields (false, nil) — a
// replayed webhook is an idempotent no-op, not an error. When no
// reservation matches the payment id at all, ErrReservationNotFound is
// returned so the caller can signal the sender to retry later.
func (r *ReservationRepo) UpdateStateIfPending(ctx context.Context, paymentID, newState string, approvedAt *time.Time) (bool, error) {
	const q = `UPDATE reservations
	           SET payment_state = ?, approved_at = ?
	           WHERE mp_payment_id = ? AND payment_state = ?`
	var ts interface{}
	if approvedAt != nil {
		ts = approvedAt.UTC()
	}
	result, err := r.db.ExecContext(ctx, q, newState, ts, paymentID, model.PaymentStatePending)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	// Nothing updated: either the row is already terminal (no-op) or it
	// never existed. Distinguish the two for the caller.
	const sel = `SELECT 1 FROM reservations WHERE mp_payment_id = ? LIMIT 1`
	var one int
	switch err := r.db.QueryRowContext(ctx, sel, paymentID).Scan(&one); err {
	case nil:
		return false, nil
	case sql.ErrNoRows:
		return false, ErrReservationNotFound
	default:
		return false, err
	}
}

// FindByPaymentID returns the reservation recorded for the given
// processor payment id, or ErrReservationNotFound when none exists.
func (r *ReservationRepo) FindByPaymentID(ctx context.Context, paymentID string) (*model.Reservation, error) {
	const q = `SELECT id, mp_payment_id, client_id, talent_id, gross_cents, commission_cents,
	                  payment_state, service_date, service_time, created_at, approved_at
	           FROM reservations WHERE mp_payment_id = ?`
	var res model.Reservation
	var clientID sql.NullInt64
	var svcDate, svcTime sql.NullString
	var approvedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, paymentID).Scan(
		&res.ID, &res.MPPaymentID, &clientID, &res.TalentID,
		&res.GrossCents, &res.CommissionCents, &res.PaymentState,
		&svcDate, &svcTime, &res.CreatedAt, &approvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		cid := uint64(clientID.Int64)
		res.ClientID = &cid
	}
	if svcDate.Valid {
		d := svcDate.String
		res.ServiceDate = &d
	}
	if svcTime.Valid {
		t := svcTime.String
		res.ServiceTime = &t
	}
	if approvedAt.Valid {
		at := approvedAt.Time.UTC()
		res.ApprovedAt = &at
	}
	return &res, nil
}
