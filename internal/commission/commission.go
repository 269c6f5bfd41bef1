// Package commission computes the platform fee withheld from escrowed
// payments. The calculation is pure so the payment initiator and tests
// can share it without any wiring.
package commission

import "errors"

// RatePercent is the platform commission withheld from every gross
// amount before settlement to the talent.
const RatePercent = 5

// ErrInvalidAmount is returned when the gross amount is zero or
// negative. Handlers should translate this into an HTTP 400 response.
var ErrInvalidAmount = errors.New("gross amount must be positive")

// Calculate returns the commission in minor currency units for the
// given gross amount: round-half-up(gross * 5%). Integer arithmetic is
// used so results are exact; 0 <= commission <= gross holds for every
// valid input.
func Calculate(grossCents int64) (int64, error) {
	if grossCents <= 0 {
		return 0, ErrInvalidAmount
	}
	// (gross*5 + 50) / 100 rounds halves upward.
	return (grossCents*RatePercent + 50) / 100, nil
}
