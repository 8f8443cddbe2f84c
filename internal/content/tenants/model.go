package tenants

import "time"

// Tenant is a store operating in the mall directory.
type Tenant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required,max=160"`
	Slug         string    `json:"slug" validate:"omitempty,max=180"`
	CategoryID   *int64    `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Floor        string    `json:"floor" validate:"max=40"`
	Unit         string    `json:"unit" validate:"max=40"`
	LogoURL      string    `json:"logoUrl" validate:"omitempty,url"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone" validate:"max=40"`
	Website      string    `json:"website" validate:"omitempty,url"`
	OpeningHours string    `json:"openingHours" validate:"max=200"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (t Tenant) EntityID() int64 { return t.ID }
