package domain

import "time"

// User is the internal record mirrored from the Clerk identity provider.
// Exactly one User exists per ClerkUserID; the uniqueness is enforced by
// the database, not by application code.
type User struct {
	ID          int64
	ClerkUserID string
	Email       *string
	FirstName   *string
	LastName    *string
	Username    *string
	ImageURL    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserAttrs is the writable projection of a User. Nil fields mean "not
// provided": an update built from attrs with a nil field keeps whatever
// value is already stored.
type UserAttrs struct {
	ClerkUserID string
	Email       *string
	FirstName   *string
	LastName    *string
	Username    *string
	ImageURL    *string
}
