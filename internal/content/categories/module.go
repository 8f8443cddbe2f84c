package categories

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

// Module bundles the category engine with its HTTP surface.
type Module struct {
	Engine  *crud.Engine[Category]
	handler *crud.RestHandler[Category]
}

// NewModule wires the category store into the mutation engine.
func NewModule(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Module {
	repo := NewRepository(pool)
	desc := crud.Descriptor[Category]{
		Module:   shared.ModuleCategories,
		Entity:   "category",
		Sections: []string{"directory"},
		Validate: func(c Category) error { return crud.ValidateStruct(c) },
		Derive: func(prev *Category, next *Category, _ time.Time) {
			if next.Slug == "" {
				next.Slug = shared.Slugify(next.Name)
			}
		},
		UniqueFields: map[string]string{"tenant_categories_slug_key": "slug"},
		Guard: func(ctx context.Context, id int64) (int, string, error) {
			n, err := repo.CountTenants(ctx, id)
			return n, "tenants", err
		},
	}
	engine := crud.NewEngine(desc, repo, authz, recorder, pages, logger)
	return &Module{
		Engine:  engine,
		handler: &crud.RestHandler[Category]{Logger: logger, Engine: engine},
	}
}

// MountRoutes registers the category routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
