package events

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

// Module bundles the event engine with its HTTP surface.
type Module struct {
	Engine  *crud.Engine[Event]
	Repo    *Repository
	handler *crud.RestHandler[Event]
}

// NewModule wires the event store into the mutation engine.
func NewModule(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Module {
	repo := NewRepository(pool)
	desc := crud.Descriptor[Event]{
		Module:   shared.ModuleEvents,
		Entity:   "event",
		Sections: []string{"events", "home"},
		Validate: func(e Event) error { return crud.ValidateStruct(e) },
		Derive: func(prev *Event, next *Event, now time.Time) {
			if next.Slug == "" {
				next.Slug = shared.Slugify(next.Title)
			}
			if prev != nil && next.PublishedAt == nil {
				next.PublishedAt = prev.PublishedAt
			}
			if next.IsPublished && next.PublishedAt == nil {
				next.PublishedAt = &now
			}
		},
		UniqueFields: map[string]string{"events_slug_key": "slug"},
		Publishes: func(prev *Event, next *Event) bool {
			return next.IsPublished && (prev == nil || !prev.IsPublished)
		},
	}
	engine := crud.NewEngine(desc, repo, authz, recorder, pages, logger)
	return &Module{
		Engine:  engine,
		Repo:    repo,
		handler: &crud.RestHandler[Event]{Logger: logger, Engine: engine},
	}
}

// MountRoutes registers the event routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
