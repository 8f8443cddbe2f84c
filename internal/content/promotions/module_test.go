package promotions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidatePromotionWindow(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	endBefore := start.Add(-time.Hour)
	endAfter := start.Add(24 * time.Hour)

	base := Promotion{Title: "Summer Deal", Code: "SUMMER26"}

	p := base
	p.StartsAt, p.EndsAt = &start, &endAfter
	require.NoError(t, validatePromotion(p))

	p = base
	p.StartsAt, p.EndsAt = &start, &endBefore
	err := validatePromotion(p)
	require.Error(t, err)
	require.Contains(t, err.Error(), "endsAt")

	p = base
	p.StartsAt, p.EndsAt = &start, &start
	require.Error(t, validatePromotion(p))

	p = base
	p.StartsAt = &start
	require.NoError(t, validatePromotion(p))
}

func TestPromotionCodeNormalizedOnDerive(t *testing.T) {
	m := NewModule(nil, nil, nil, nil, nil)
	desc := m.Engine.Descriptor()

	p := Promotion{Title: "Deal", Code: "  summer26 "}
	desc.Derive(nil, &p, time.Now())
	require.Equal(t, "SUMMER26", p.Code)
}

func TestPromotionPublishStamp(t *testing.T) {
	m := NewModule(nil, nil, nil, nil, nil)
	desc := m.Engine.Descriptor()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	p := Promotion{Title: "Deal", Code: "DEAL", IsPublished: true}
	desc.Derive(nil, &p, now)
	require.NotNil(t, p.PublishedAt)
	require.Equal(t, now, *p.PublishedAt)

	prev := p
	next := Promotion{Title: "Deal", Code: "DEAL", IsPublished: false}
	desc.Derive(&prev, &next, now.Add(time.Hour))
	require.NotNil(t, next.PublishedAt)
	require.Equal(t, now, *next.PublishedAt)
}
