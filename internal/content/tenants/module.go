package tenants

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Module bundles the tenant engine with its HTTP surface.
type Module struct {
	Engine  *crud.Engine[Tenant]
	Repo    *Repository
	handler *crud.RestHandler[Tenant]
}

// NewModule wires the tenant store into the mutation engine.
func NewModule(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Module {
	repo := NewRepository(pool)
	desc := crud.Descriptor[Tenant]{
		Module:   shared.ModuleTenants,
		Entity:   "tenant",
		Sections: []string{"directory", "home"},
		Validate: func(t Tenant) error { return crud.ValidateStruct(t) },
		Derive: func(prev *Tenant, next *Tenant, _ time.Time) {
			if next.Slug == "" {
				next.Slug = shared.Slugify(next.Name)
			}
		},
		UniqueFields: map[string]string{"tenants_slug_key": "slug"},
		Guard: func(ctx context.Context, id int64) (int, string, error) {
			n, err := repo.CountPromotions(ctx, id)
			return n, "promotions", err
		},
	}
	engine := crud.NewEngine(desc, repo, authz, recorder, pages, logger)
	return &Module{
		Engine:  engine,
		Repo:    repo,
		handler: &crud.RestHandler[Tenant]{Logger: logger, Engine: engine},
	}
}

// MountRoutes registers the tenant routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
