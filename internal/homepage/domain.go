package homepage

import "time"

// Content types an item may point at. A custom item carries its own title,
// image and link; every other type references a row in that module.
const (
	TypeEvent     = "event"
	TypeTenant    = "tenant"
	TypePost      = "post"
	TypePromotion = "promotion"
	TypeCustom    = "custom"
)

// Item is one slot in the homepage feed.
type Item struct {
	ID           int64     `json:"id"`
	ContentType  string    `json:"contentType" validate:"required,oneof=event tenant post promotion custom"`
	ReferenceID  *int64    `json:"referenceId"`
	CustomTitle  string    `json:"customTitle" validate:"max=200"`
	CustomImage  string    `json:"customImage" validate:"omitempty,url"`
	CustomURL    string    `json:"customUrl" validate:"omitempty,url"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (i Item) EntityID() int64 { return i.ID }

// Card is a resolved feed entry ready for rendering.
type Card struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Image        string `json:"image,omitempty"`
	URL          string `json:"url,omitempty"`
	ReferenceID  *int64 `json:"referenceId,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

// ReorderInput is the persisted display order, item IDs first to last.
type ReorderInput struct {
	ItemIDs []int64 `json:"itemIds" validate:"required,min=1,dive,required"`
}
