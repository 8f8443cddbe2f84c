package promotions

import "time"

// Promotion is a coupon or deal, optionally tied to a tenant and limited to
// a validity window.
type Promotion struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"required,max=200"`
	Code        string     `json:"code" validate:"required,max=60"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url"`
	TenantID    *int64     `json:"tenantId"`
	TenantName  string     `json:"tenantName,omitempty"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (p Promotion) EntityID() int64 { return p.ID }
