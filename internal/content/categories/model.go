package categories

import "time"

// Category groups tenants for directory browsing.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=120"`
	Slug      string    `json:"slug" validate:"omitempty,max=140"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (c Category) EntityID() int64 { return c.ID }
