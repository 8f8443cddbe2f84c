package events

import "time"

// Event is a scheduled mall happening with a fixed time window.
type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"omitempty,max=220"`
	Description string     `json:"description"`
	Venue       string     `json:"venue" validate:"max=160"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url"`
	StartsAt    time.Time  `json:"startsAt" validate:"required"`
	EndsAt      time.Time  `json:"endsAt" validate:"required,gtfield=StartsAt"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (e Event) EntityID() int64 { return e.ID }
