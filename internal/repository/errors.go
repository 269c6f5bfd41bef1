// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and services to distinguish between different failure
// scenarios. For example, ErrDuplicatePaymentID indicates that a
// reservation already exists for a processor payment id and defends
// against double-submission, while ErrReservationNotFound signals that
// a webhook refers to a payment this system never recorded.
package repository

import "errors"

// ErrDuplicatePaymentID is returned when a reservation insert collides
// with an existing row for the same processor payment id. The existing
// row is left untouched.
var ErrDuplicatePaymentID = errors.New("duplicate payment id")

// ErrReservationNotFound is returned when no reservation matches the
// given processor payment id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTalentNotFound is returned when a talent id does not resolve to a
// talent profile. Handlers should translate this into an HTTP 404
// response.
var ErrTalentNotFound = errors.New("talent not found")

// ErrUserNotFound is returned when a user id does not resolve to an
// account. The notification consumer treats this as a skipped
// recipient rather than a fatal condition.
var ErrUserNotFound = errors.New("user not found")
