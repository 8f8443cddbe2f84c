package users

import "time"

// AdminUser is a dashboard account as surfaced to the API. The password
// hash never leaves the repository layer.
type AdminUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	Roles     []string  `json:"roles,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (u AdminUser) EntityID() int64 { return u.ID }

// CreateInput is the new-account payload.
type CreateInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateInput edits an account. An empty password leaves it unchanged.
type UpdateInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	IsActive bool   `json:"isActive"`
}

// RoleInput attaches or detaches one role.
type RoleInput struct {
	RoleID int64 `json:"roleId" validate:"required,min=1"`
}
