package model

import "time"

// User represents an account on the platform as stored in the `users`
// table. Both clients and talents resolve to a user for contact
// purposes: a talent is a sub-profile owned by a user, so confirmation
// email goes to the owning user's address.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Email     – unique email address used for notifications.
//  FullName  – display name.
//  CreatedAt – timestamp of creation.
type User struct {
	ID        uint64    // users.id
	Email     string    // users.email
	FullName  string    // users.full_name
	CreatedAt time.Time // users.created_at
}

// Talent is the service-provider profile of a user. The rating summary
// fields are derived: they are recomputed from the full review set on
// every review insertion rather than incremented, so a partially failed
// update cannot leave them drifting from the reviews table.
//
// Fields:
//  ID            – primary key identifier of the talent profile.
//  UserID        – owning user identity (contact resolution goes here).
//  DisplayName   – public name shown to clients.
//  RatingAverage – mean of all review ratings for this talent.
//  RatingCount   – number of reviews counted into the average.
//  CreatedAt     – timestamp of creation.
type Talent struct {
	ID            uint64    // talents.id
	UserID        uint64    // talents.user_id
	DisplayName   string    // talents.display_name
	RatingAverage float64   // talents.rating_average
	RatingCount   uint32    // talents.rating_count
	CreatedAt     time.Time // talents.created_at
}
