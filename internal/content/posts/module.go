package posts

import (
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

// Module bundles the post engine with its HTTP surface.
type Module struct {
	Engine  *crud.Engine[Post]
	Repo    *Repository
	handler *crud.RestHandler[Post]
}

// NewModule wires the post store into the mutation engine.
func NewModule(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Module {
	repo := NewRepository(pool)
	desc := crud.Descriptor[Post]{
		Module:   shared.ModulePosts,
		Entity:   "post",
		Sections: []string{"news", "home"},
		Validate: func(p Post) error { return crud.ValidateStruct(p) },
		Derive: func(prev *Post, next *Post, now time.Time) {
			if next.Slug == "" {
				next.Slug = shared.Slugify(next.Title)
			}
			// The first transition into the published state stamps the
			// publication time; unpublish and republish keep the original.
			if prev != nil && next.PublishedAt == nil {
				next.PublishedAt = prev.PublishedAt
			}
			if next.IsPublished && next.PublishedAt == nil {
				next.PublishedAt = &now
			}
		},
		UniqueFields: map[string]string{"posts_slug_key": "slug"},
		Publishes: func(prev *Post, next *Post) bool {
			return next.IsPublished && (prev == nil || !prev.IsPublished)
		},
	}
	engine := crud.NewEngine(desc, repo, authz, recorder, pages, logger)
	return &Module{
		Engine:  engine,
		Repo:    repo,
		handler: &crud.RestHandler[Post]{Logger: logger, Engine: engine},
	}
}

// MountRoutes registers the post routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
