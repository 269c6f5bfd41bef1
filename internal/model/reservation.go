package model

import "time"

// Payment states a reservation can be in. A reservation starts out as
// PENDING (or APPROVED for instant payment methods) and is moved into a
// terminal state exactly once by the webhook reconciler. Terminal states
// are never left again.
const (
	PaymentStatePending  = "pending"  // charge submitted, awaiting processor confirmation
	PaymentStateApproved = "approved" // processor confirmed the charge
	PaymentStateFailed   = "failed"   // processor rejected or cancelled the charge
)

// Reservation records an escrowed service booking paid for by a client.
// The platform holds the gross amount and withholds a commission; the
// row is the durable audit record other systems (reporting, support
// tooling) read against, so rows are never deleted.
//
// Fields:
//  ID              – primary key identifier.
//  MPPaymentID     – payment id assigned by the processor (unique).
//  ClientID        – user who paid for the service (nullable).
//  TalentID        – talent providing the service.
//  GrossCents      – gross amount charged, in minor currency units.
//  CommissionCents – platform commission withheld (5% of gross, rounded).
//  PaymentState    – one of PaymentStatePending/Approved/Failed.
//  ServiceDate     – agreed date of the service (nullable).
//  ServiceTime     – agreed time of the service (nullable).
//  CreatedAt       – creation timestamp.
//  ApprovedAt      – when the processor confirmed the payment (null until then).
type Reservation struct {
	ID              uint64     // reservations.id
	MPPaymentID     string     // reservations.mp_payment_id
	ClientID        *uint64    // reservations.client_id (nullable)
	TalentID        uint64     // reservations.talent_id
	GrossCents      int64      // reservations.gross_cents
	CommissionCents int64      // reservations.commission_cents
	PaymentState    string     // reservations.payment_state
	ServiceDate     *string    // reservations.service_date (nullable, YYYY-MM-DD)
	ServiceTime     *string    // reservations.service_time (nullable, HH:MM)
	CreatedAt       time.Time  // reservations.created_at
	ApprovedAt      *time.Time // reservations.approved_at (nullable)
}
