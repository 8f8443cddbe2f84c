package vip

import "time"

// Tier is a membership level. Levels are unique and ordered ascending.
type Tier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=120"`
	Level     int       `json:"level" validate:"required,min=1,max=100"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (t Tier) EntityID() int64 { return t.ID }

// Benefit is a perk that tiers can grant.
type Benefit struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" validate:"required,max=160"`
	Description string    `json:"description" validate:"max=500"`
	Icon        string    `json:"icon" validate:"max=80"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntityID returns the primary key for audit rows.
func (b Benefit) EntityID() int64 { return b.ID }

// TierBenefit is one benefit granted by a tier, with presentation order and
// an optional tier-specific note.
type TierBenefit struct {
	BenefitID    int64  `json:"benefitId" validate:"required"`
	Title        string `json:"title,omitempty"`
	Icon         string `json:"icon,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	Note         string `json:"note" validate:"max=300"`
}

// TierBenefitsInput is the wholesale replacement payload for a tier's
// benefit grants.
type TierBenefitsInput struct {
	Benefits []TierBenefit `json:"benefits" validate:"required,dive"`
}
