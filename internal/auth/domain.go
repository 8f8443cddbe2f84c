package auth

import "time"

// User represents an admin account with credentials.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the resolved actor attached to a request. Handlers and
// services receive it explicitly; there is no ambient current-user state.
type Identity struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	SuperAdmin bool   `json:"superAdmin"`
}
