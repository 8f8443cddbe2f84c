package promotions

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Module bundles the promotion engine with its HTTP surface.
type Module struct {
	Engine  *crud.Engine[Promotion]
	Repo    *Repository
	handler *crud.RestHandler[Promotion]
}

// NewModule wires the promotion store into the mutation engine.
func NewModule(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Module {
	repo := NewRepository(pool)
	desc := crud.Descriptor[Promotion]{
		Module:   shared.ModulePromotions,
		Entity:   "promotion",
		Sections: []string{"promotions", "home"},
		Validate: validatePromotion,
		Derive: func(prev *Promotion, next *Promotion, now time.Time) {
			next.Code = strings.ToUpper(strings.TrimSpace(next.Code))
			if prev != nil && next.PublishedAt == nil {
				next.PublishedAt = prev.PublishedAt
			}
			if next.IsPublished && next.PublishedAt == nil {
				next.PublishedAt = &now
			}
		},
		UniqueFields: map[string]string{"promotions_code_key": "code"},
		Publishes: func(prev *Promotion, next *Promotion) bool {
			return next.IsPublished && (prev == nil || !prev.IsPublished)
		},
	}
	engine := crud.NewEngine(desc, repo, authz, recorder, pages, logger)
	return &Module{
		Engine:  engine,
		Repo:    repo,
		handler: &crud.RestHandler[Promotion]{Logger: logger, Engine: engine},
	}
}

func validatePromotion(p Promotion) error {
	if err := crud.ValidateStruct(p); err != nil {
		return err
	}
	if p.StartsAt != nil && p.EndsAt != nil && !p.EndsAt.After(*p.StartsAt) {
		return shared.FieldError("endsAt", "must be after startsAt")
	}
	return nil
}

// MountRoutes registers the promotion routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
