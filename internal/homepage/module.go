package homepage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Module bundles the homepage item engine, the feed resolver and the
// reorder operation.
type Module struct {
	Engine *crud.Engine[Item]

	repo       *Repository
	resolver   *Resolver
	authz      *rbac.Resolver
	recorder   *audit.Recorder
	pages      *cache.PageCache
	invalidate cache.Invalidator
	logger     *slog.Logger
}

// NewModule wires the homepage store into the mutation engine. pages serves
// the cached feed reads; invalidator carries section bumps after mutations.
func NewModule(pool *pgxpool.Pool, resolver *Resolver, authz *rbac.Resolver, recorder *audit.Recorder, pages *cache.PageCache, invalidator cache.Invalidator, logger *slog.Logger) *Module {
	repo := NewRepository(pool)
	desc := crud.Descriptor[Item]{
		Module:   shared.ModuleHomepage,
		Entity:   "homepage item",
		Sections: []string{"home"},
		Validate: validateItem,
	}
	return &Module{
		Engine:     crud.NewEngine(desc, repo, authz, recorder, invalidator, logger),
		repo:       repo,
		resolver:   resolver,
		authz:      authz,
		recorder:   recorder,
		pages:      pages,
		invalidate: invalidator,
		logger:     logger,
	}
}

// validateItem enforces the reference XOR custom rule on top of the tag
// checks.
func validateItem(i Item) error {
	if err := crud.ValidateStruct(i); err != nil {
		return err
	}
	if i.ContentType == TypeCustom {
		if i.ReferenceID != nil {
			return shared.FieldError("referenceId", "must be empty for custom items")
		}
		if i.CustomTitle == "" {
			return shared.FieldError("customTitle", "is required for custom items")
		}
		return nil
	}
	if i.ReferenceID == nil || *i.ReferenceID <= 0 {
		return shared.FieldError("referenceId", "is required for "+i.ContentType+" items")
	}
	return nil
}

// Feed resolves the active items into cards, served from the page cache.
func (m *Module) Feed(ctx context.Context) ([]Card, error) {
	var cards []Card
	err := m.pages.FetchJSON(ctx, "home", "feed", &cards, func(ctx context.Context) (any, error) {
		items, err := m.repo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return m.resolver.Resolve(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []Card{}
	}
	return cards, nil
}

// Reorder persists a new display order for the feed.
func (m *Module) Reorder(ctx context.Context, actor *auth.Identity, input ReorderInput) crud.Result[ReorderInput] {
	if actor == nil {
		return crud.Fail[ReorderInput](shared.ErrUnauthorized)
	}
	if !m.authz.HasPermission(ctx, actor, shared.ModuleHomepage, shared.ActionEdit) {
		return crud.Fail[ReorderInput](shared.ErrForbidden)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[ReorderInput](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	if err := m.repo.Reorder(ctx, input.ItemIDs); err != nil {
		return crud.Fail[ReorderInput](err)
	}
	if m.recorder != nil {
		m.recorder.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "homepage item.reorder",
			Entity:   "homepage item",
			EntityID: "",
			Meta:     map[string]any{"order": input.ItemIDs},
			At:       time.Now(),
		})
	}
	if m.invalidate != nil {
		m.invalidate.Invalidate(ctx, "home")
	}
	return crud.OK(input, "homepage order updated")
}
