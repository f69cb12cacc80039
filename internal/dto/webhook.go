package dto

import "encoding/json"

// Clerk webhook event types handled by the sync endpoint.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// WebhookEvent is the envelope Clerk posts to the webhook endpoint.
// Data is decoded per event type.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EmailAddress is one entry of a Clerk user's email_addresses list.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// ClerkUserPayload is the data object of user.created / user.updated events.
// Clerk always sends the full user object, never a diff; the normalizer
// depends on that (a missing field means "user has no value", not "field
// was not included this time").
type ClerkUserPayload struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	Username       *string        `json:"username"`
	ImageURL       *string        `json:"image_url"`
}

// ClerkDeletedPayload is the data object of user.deleted events.
type ClerkDeletedPayload struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
