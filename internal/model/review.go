package model

import "time"

// Review is a client's rating of a talent for a completed reservation.
// Reviews are immutable once inserted; the talent's rating summary is
// derived from them (see Talent).
//
// Fields:
//  ID            – generated identifier (UUID).
//  TalentID      – talent being reviewed.
//  ClientID      – user who wrote the review.
//  Rating        – integer score, 1 to 5 inclusive.
//  Comment       – optional free-text comment.
//  ReservationID – reservation the review refers to.
//  CreatedAt     – timestamp of creation.
type Review struct {
	ID            string    // reviews.id
	TalentID      uint64    // reviews.talent_id
	ClientID      uint64    // reviews.client_id
	Rating        int       // reviews.rating
	Comment       string    // reviews.comment (may be empty)
	ReservationID uint64    // reviews.reservation_id
	CreatedAt     time.Time // reviews.created_at
}
