package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Store is the persistence contract an entity supplies to the engine.
type Store[T any] interface {
	List(ctx context.Context, filters Filters) ([]T, int, error)
	Get(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id int64, entity T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Guard is a pre-delete referential check. It returns the number of
// dependent rows and a plural label for the error message.
type Guard func(ctx context.Context, id int64) (int, string, error)

// Descriptor parameterizes the engine for one entity type.
type Descriptor[T any] struct {
	// Module is the permission module gating operations.
	Module string
	// Entity names the type in audit rows and messages, singular.
	Entity string
	// Sections are the cached page sections invalidated after a mutation.
	Sections []string
	// Validate checks input shape; the first violated rule is surfaced.
	Validate func(T) error
	// Derive applies domain-derived fields before a write. prev is nil on
	// insert.
	Derive func(prev *T, next *T, now time.Time)
	// UniqueFields maps constraint names to the human field they protect.
	UniqueFields map[string]string
	// Guard blocks deletion while dependent rows exist.
	Guard Guard
	// Publishes reports whether the write flips the entity into the
	// published state; such writes additionally require the module's
	// publish permission. prev is nil on insert.
	Publishes func(prev *T, next *T) bool
}

// Engine orchestrates the shared mutation and listing pattern:
// permission gate, validation, derived fields, write, error mapping,
// best-effort audit, cache invalidation.
type Engine[T any] struct {
	desc   Descriptor[T]
	store  Store[T]
	authz  *rbac.Resolver
	audit  *audit.Recorder
	pages  cache.Invalidator
	logger *slog.Logger
}

// NewEngine builds an Engine for one entity descriptor.
func NewEngine[T any](desc Descriptor[T], store Store[T], authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Engine[T] {
	return &Engine[T]{desc: desc, store: store, authz: authz, audit: recorder, pages: pages, logger: logger}
}

// Descriptor exposes the entity descriptor.
func (e *Engine[T]) Descriptor() Descriptor[T] {
	return e.desc
}

// List runs a filtered, sorted, paginated read.
func (e *Engine[T]) List(ctx context.Context, actor *auth.Identity, filters Filters) (Page[T], error) {
	if err := e.gate(ctx, actor, shared.ActionView); err != nil {
		return Page[T]{}, err
	}
	filters = filters.Normalize()
	rows, total, err := e.store.List(ctx, filters)
	if err != nil {
		return Page[T]{}, err
	}
	return NewPage(rows, total, filters), nil
}

// Get fetches one entity by ID.
func (e *Engine[T]) Get(ctx context.Context, actor *auth.Identity, id int64) (T, error) {
	var zero T
	if err := e.gate(ctx, actor, shared.ActionView); err != nil {
		return zero, err
	}
	entity, err := e.store.Get(ctx, id)
	if err != nil {
		return zero, db.Classify(err)
	}
	return entity, nil
}

// Create validates and inserts a new entity.
func (e *Engine[T]) Create(ctx context.Context, actor *auth.Identity, input T) Result[T] {
	if err := e.gate(ctx, actor, shared.ActionCreate); err != nil {
		return Fail[T](err)
	}
	if err := e.validate(input); err != nil {
		return Fail[T](err)
	}
	if err := e.gatePublish(ctx, actor, nil, &input); err != nil {
		return Fail[T](err)
	}
	if e.desc.Derive != nil {
		e.desc.Derive(nil, &input, time.Now())
	}
	created, err := e.store.Insert(ctx, input)
	if err != nil {
		return Fail[T](e.mapStorageError(err))
	}
	e.record(ctx, actor, "create", e.entityID(created), map[string]any{"after": created})
	e.invalidate(ctx)
	return OK(created, e.desc.Entity+" created")
}

// Update validates and writes an existing entity.
func (e *Engine[T]) Update(ctx context.Context, actor *auth.Identity, id int64, input T) Result[T] {
	if err := e.gate(ctx, actor, shared.ActionEdit); err != nil {
		return Fail[T](err)
	}
	if err := e.validate(input); err != nil {
		return Fail[T](err)
	}
	prev, err := e.store.Get(ctx, id)
	if err != nil {
		return Fail[T](db.Classify(err))
	}
	if err := e.gatePublish(ctx, actor, &prev, &input); err != nil {
		return Fail[T](err)
	}
	if e.desc.Derive != nil {
		e.desc.Derive(&prev, &input, time.Now())
	}
	updated, err := e.store.Update(ctx, id, input)
	if err != nil {
		return Fail[T](e.mapStorageError(err))
	}
	e.record(ctx, actor, "update", strconv.FormatInt(id, 10), map[string]any{"before": prev, "after": updated})
	e.invalidate(ctx)
	return OK(updated, e.desc.Entity+" updated")
}

// Delete removes an entity after the referential guard passes.
func (e *Engine[T]) Delete(ctx context.Context, actor *auth.Identity, id int64) Result[T] {
	if err := e.gate(ctx, actor, shared.ActionDelete); err != nil {
		return Fail[T](err)
	}
	prev, err := e.store.Get(ctx, id)
	if err != nil {
		return Fail[T](db.Classify(err))
	}
	if e.desc.Guard != nil {
		count, label, err := e.desc.Guard(ctx, id)
		if err != nil {
			return Fail[T](err)
		}
		if count > 0 {
			return Fail[T](fmt.Errorf("%w: cannot delete %s, %d %s still attached",
				shared.ErrConflict, e.desc.Entity, count, label))
		}
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return Fail[T](e.mapStorageError(err))
	}
	e.record(ctx, actor, "delete", strconv.FormatInt(id, 10), map[string]any{"before": prev})
	e.invalidate(ctx)
	return Result[T]{Success: true, Message: e.desc.Entity + " deleted"}
}

// gate enforces the identity and permission checks, in that order.
func (e *Engine[T]) gate(ctx context.Context, actor *auth.Identity, action string) error {
	if actor == nil {
		return shared.ErrUnauthorized
	}
	if !e.authz.HasPermission(ctx, actor, e.desc.Module, action) {
		return shared.ErrForbidden
	}
	return nil
}

// gatePublish requires the module's publish permission when the write is a
// transition into the published state.
func (e *Engine[T]) gatePublish(ctx context.Context, actor *auth.Identity, prev *T, next *T) error {
	if e.desc.Publishes == nil || !e.desc.Publishes(prev, next) {
		return nil
	}
	if !e.authz.HasPermission(ctx, actor, e.desc.Module, shared.ActionPublish) {
		return shared.ErrForbidden
	}
	return nil
}

func (e *Engine[T]) validate(input T) error {
	if e.desc.Validate == nil {
		return nil
	}
	if err := e.desc.Validate(input); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	return nil
}

// mapStorageError converts storage errors into the taxonomy, naming the
// conflicting field on unique violations.
func (e *Engine[T]) mapStorageError(err error) error {
	classified := db.Classify(err)
	if errors.Is(classified, shared.ErrDuplicate) {
		field := e.desc.UniqueFields[db.ConstraintName(err)]
		if field == "" {
			field = "key"
		}
		return fmt.Errorf("%w: a %s with that %s already exists", shared.ErrDuplicate, e.desc.Entity, field)
	}
	return classified
}

func (e *Engine[T]) record(ctx context.Context, actor *auth.Identity, action, entityID string, meta map[string]any) {
	if e.audit == nil {
		return
	}
	e.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   e.desc.Entity + "." + action,
		Entity:   e.desc.Entity,
		EntityID: entityID,
		Meta:     meta,
		At:       time.Now(),
	})
}

func (e *Engine[T]) invalidate(ctx context.Context) {
	if e.pages == nil || len(e.desc.Sections) == 0 {
		return
	}
	e.pages.Invalidate(ctx, e.desc.Sections...)
}

// entityID extracts a printable ID from a written entity via the optional
// identifier interface; falls back to empty.
func (e *Engine[T]) entityID(entity T) string {
	if ident, ok := any(entity).(interface{ EntityID() int64 }); ok {
		return strconv.FormatInt(ident.EntityID(), 10)
	}
	if ident, ok := any(&entity).(interface{ EntityID() int64 }); ok {
		return strconv.FormatInt(ident.EntityID(), 10)
	}
	return ""
}
