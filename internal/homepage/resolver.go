package homepage

import (
	"context"
	"fmt"

	"github.com/arcadia-mall/arcadia-admin/internal/content/events"
	"github.com/arcadia-mall/arcadia-admin/internal/content/posts"
	"github.com/arcadia-mall/arcadia-admin/internal/content/promotions"
	"github.com/arcadia-mall/arcadia-admin/internal/content/tenants"
)

// Reference sources, one per referenced content type. Satisfied by the
// content repositories and by in-memory fakes in tests.
type (
	EventSource interface {
		FindByIDs(ctx context.Context, ids []int64) (map[int64]events.Event, error)
	}
	TenantSource interface {
		FindByIDs(ctx context.Context, ids []int64) (map[int64]tenants.Tenant, error)
	}
	PostSource interface {
		FindByIDs(ctx context.Context, ids []int64) (map[int64]posts.Post, error)
	}
	PromotionSource interface {
		FindByIDs(ctx context.Context, ids []int64) (map[int64]promotions.Promotion, error)
	}
)

// Resolver turns homepage items into renderable cards by batch-fetching the
// referenced rows, one query per content type.
type Resolver struct {
	Events     EventSource
	Tenants    TenantSource
	Posts      PostSource
	Promotions PromotionSource
}

// Resolve maps items onto cards in input order. Custom title and image
// override the referenced entity's own; a dangling or unpublished reference
// leaves only the custom fields, and a card with no title at all is dropped.
func (r *Resolver) Resolve(ctx context.Context, items []Item) ([]Card, error) {
	refs := map[string][]int64{}
	for _, item := range items {
		if item.ContentType != TypeCustom && item.ReferenceID != nil {
			refs[item.ContentType] = append(refs[item.ContentType], *item.ReferenceID)
		}
	}

	eventRows, err := r.Events.FindByIDs(ctx, refs[TypeEvent])
	if err != nil {
		return nil, fmt.Errorf("resolve events: %w", err)
	}
	tenantRows, err := r.Tenants.FindByIDs(ctx, refs[TypeTenant])
	if err != nil {
		return nil, fmt.Errorf("resolve tenants: %w", err)
	}
	postRows, err := r.Posts.FindByIDs(ctx, refs[TypePost])
	if err != nil {
		return nil, fmt.Errorf("resolve posts: %w", err)
	}
	promotionRows, err := r.Promotions.FindByIDs(ctx, refs[TypePromotion])
	if err != nil {
		return nil, fmt.Errorf("resolve promotions: %w", err)
	}

	cards := []Card{}
	for _, item := range items {
		card := Card{
			ID:           item.ID,
			Type:         item.ContentType,
			Title:        item.CustomTitle,
			Image:        item.CustomImage,
			URL:          item.CustomURL,
			ReferenceID:  item.ReferenceID,
			DisplayOrder: item.DisplayOrder,
		}
		if item.ContentType != TypeCustom && item.ReferenceID != nil {
			var title, image, url string
			var found bool
			switch item.ContentType {
			case TypeEvent:
				if e, ok := eventRows[*item.ReferenceID]; ok && e.IsPublished {
					title, image, url, found = e.Title, e.ImageURL, "/events/"+e.Slug, true
				}
			case TypeTenant:
				if t, ok := tenantRows[*item.ReferenceID]; ok && t.IsActive {
					title, image, url, found = t.Name, t.LogoURL, "/tenants/"+t.Slug, true
				}
			case TypePost:
				if p, ok := postRows[*item.ReferenceID]; ok && p.IsPublished {
					title, image, url, found = p.Title, p.CoverURL, "/news/"+p.Slug, true
				}
			case TypePromotion:
				if p, ok := promotionRows[*item.ReferenceID]; ok && p.IsPublished {
					title, image, url, found = p.Title, p.ImageURL, "/promotions/"+p.Code, true
				}
			}
			if found {
				if card.Title == "" {
					card.Title = title
				}
				if card.Image == "" {
					card.Image = image
				}
				if card.URL == "" {
					card.URL = url
				}
			}
		}
		if card.Title == "" {
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}
