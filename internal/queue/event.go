// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that decouples confirmation email from
// the webhook reconciliation result.
package queue

// ReservationApprovedEvent is published exactly once per reservation,
// by the webhook reconciler that actually performed the pending →
// approved transition. It carries enough information for the
// notification consumer to email both parties without re-reading the
// reservation row.
type ReservationApprovedEvent struct {
	ReservationID   uint64  `json:"reservation_id"`
	PaymentID       string  `json:"payment_id"`
	TalentID        uint64  `json:"talent_id"`
	ClientID        *uint64 `json:"client_id,omitempty"`
	GrossCents      int64   `json:"gross_cents"`
	CommissionCents int64   `json:"commission_cents"`
	ServiceDate     string  `json:"service_date,omitempty"`
	ServiceTime     string  `json:"service_time,omitempty"`
	ApprovedAt      string  `json:"approved_at"`
}
