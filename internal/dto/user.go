package dto

import "time"

// UserResponse is the JSON shape of a stored user.
type UserResponse struct {
	ID          int64   `json:"id"`
	ClerkUserID string  `json:"clerk_user_id"`
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Username    *string `json:"username,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse wraps a list of users.
type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}
