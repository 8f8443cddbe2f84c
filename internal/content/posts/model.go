package posts

import "time"

// Post is a news or editorial article.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"omitempty,max=220"`
	Excerpt     string     `json:"excerpt" validate:"max=500"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"coverUrl" validate:"omitempty,url"`
	Tags        []string   `json:"tags" validate:"max=20,dive,max=60"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (p Post) EntityID() int64 { return p.ID }
