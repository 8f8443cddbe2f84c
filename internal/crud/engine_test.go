package crud

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

type gadget struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name" validate:"required,max=40"`
	Slug        string     `json:"slug" validate:"required,max=60"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (g gadget) EntityID() int64 { return g.ID }

type memoryGadgetStore struct {
	rows   map[int64]gadget
	nextID int64
}

func newMemoryGadgetStore() *memoryGadgetStore {
	return &memoryGadgetStore{rows: make(map[int64]gadget)}
}

func (s *memoryGadgetStore) List(ctx context.Context, f Filters) ([]gadget, int, error) {
	all := make([]gadget, 0, len(s.rows))
	for _, g := range s.rows {
		all = append(all, g)
	}
	start := f.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + f.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (s *memoryGadgetStore) Get(ctx context.Context, id int64) (gadget, error) {
	g, ok := s.rows[id]
	if !ok {
		return gadget{}, pgx.ErrNoRows
	}
	return g, nil
}

func (s *memoryGadgetStore) Insert(ctx context.Context, g gadget) (gadget, error) {
	for _, existing := range s.rows {
		if existing.Slug == g.Slug {
			return gadget{}, &pgconn.PgError{Code: "23505", ConstraintName: "gadgets_slug_key"}
		}
	}
	s.nextID++
	g.ID = s.nextID
	s.rows[g.ID] = g
	return g, nil
}

func (s *memoryGadgetStore) Update(ctx context.Context, id int64, g gadget) (gadget, error) {
	if _, ok := s.rows[id]; !ok {
		return gadget{}, pgx.ErrNoRows
	}
	for otherID, existing := range s.rows {
		if otherID != id && existing.Slug == g.Slug {
			return gadget{}, &pgconn.PgError{Code: "23505", ConstraintName: "gadgets_slug_key"}
		}
	}
	g.ID = id
	s.rows[id] = g
	return g, nil
}

func (s *memoryGadgetStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.rows, id)
	return nil
}

type stubPermissionLoader struct {
	perms map[int64][]string
	err   error
}

func (l *stubPermissionLoader) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.perms[userID], nil
}

type engineFixture struct {
	engine *Engine[gadget]
	store  *memoryGadgetStore
	loader *stubPermissionLoader
	guard  *guardState
}

type guardState struct {
	count int
	label string
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	store := newMemoryGadgetStore()
	loader := &stubPermissionLoader{perms: map[int64][]string{}}
	guard := &guardState{}
	desc := Descriptor[gadget]{
		Module:   "gadgets",
		Entity:   "gadget",
		Sections: []string{"home"},
		Validate: func(g gadget) error { return ValidateStruct(g) },
		Derive: func(prev *gadget, next *gadget, now time.Time) {
			if prev != nil && next.PublishedAt == nil {
				next.PublishedAt = prev.PublishedAt
			}
			if next.IsPublished && next.PublishedAt == nil {
				next.PublishedAt = &now
			}
		},
		UniqueFields: map[string]string{"gadgets_slug_key": "slug"},
		Guard: func(ctx context.Context, id int64) (int, string, error) {
			return guard.count, guard.label, nil
		},
		Publishes: func(prev *gadget, next *gadget) bool {
			return next.IsPublished && (prev == nil || !prev.IsPublished)
		},
	}
	resolver := rbac.NewResolver(loader, logger)
	recorder := audit.NewRecorder(nil, nil, logger)
	engine := NewEngine(desc, store, resolver, recorder, nil, logger)
	return &engineFixture{engine: engine, store: store, loader: loader, guard: guard}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func editor() *auth.Identity {
	return &auth.Identity{ID: 7, Email: "editor@example.com", Name: "Editor"}
}

func grantAll(f *engineFixture, userID int64) {
	f.loader.perms[userID] = []string{"gadgets.view", "gadgets.create", "gadgets.edit", "gadgets.delete", "gadgets.publish"}
}

func TestEngineCreateRequiresIdentity(t *testing.T) {
	f := newEngineFixture(t)
	res := f.engine.Create(context.Background(), nil, gadget{Name: "Lamp", Slug: "lamp"})
	require.False(t, res.Success)
	require.Equal(t, "unauthorized", res.Code)
	require.Empty(t, f.store.rows)
}

func TestEngineCreateRequiresPermission(t *testing.T) {
	f := newEngineFixture(t)
	f.loader.perms[7] = []string{"gadgets.view"}
	res := f.engine.Create(context.Background(), editor(), gadget{Name: "Lamp", Slug: "lamp"})
	require.False(t, res.Success)
	require.Equal(t, "forbidden", res.Code)
	require.Empty(t, f.store.rows)
}

func TestEngineSuperAdminBypassesLoader(t *testing.T) {
	f := newEngineFixture(t)
	f.loader.err = errors.New("permission store down")
	admin := &auth.Identity{ID: 1, SuperAdmin: true}
	res := f.engine.Create(context.Background(), admin, gadget{Name: "Lamp", Slug: "lamp"})
	require.True(t, res.Success)
	require.Len(t, f.store.rows, 1)
}

func TestEngineCreateThenGetRoundTrip(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	actor := editor()

	res := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp"})
	require.True(t, res.Success)
	require.Equal(t, "gadget created", res.Message)
	require.NotNil(t, res.Data)
	require.NotZero(t, res.Data.ID)

	got, err := f.engine.Get(context.Background(), actor, res.Data.ID)
	require.NoError(t, err)
	require.Equal(t, "Lamp", got.Name)
	require.Equal(t, "lamp", got.Slug)
}

func TestEngineValidationSurfacesFirstRuleOnly(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)

	res := f.engine.Create(context.Background(), editor(), gadget{})
	require.False(t, res.Success)
	require.Equal(t, "validation_failed", res.Code)
	require.Contains(t, res.Error, `name fails rule "required"`)
	require.NotContains(t, res.Error, "slug")
	require.Empty(t, f.store.rows)
}

func TestEngineDuplicateNamesFieldAndLeavesStoreUnchanged(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	actor := editor()

	first := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp"})
	require.True(t, first.Success)

	second := f.engine.Create(context.Background(), actor, gadget{Name: "Other Lamp", Slug: "lamp"})
	require.False(t, second.Success)
	require.Equal(t, "duplicate", second.Code)
	require.Contains(t, second.Error, "a gadget with that slug already exists")
	require.Len(t, f.store.rows, 1)
}

func TestEngineUpdateNotFound(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	res := f.engine.Update(context.Background(), editor(), 99, gadget{Name: "Lamp", Slug: "lamp"})
	require.False(t, res.Success)
	require.Equal(t, "not_found", res.Code)
}

func TestEngineDeleteBlockedByGuard(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	actor := editor()

	created := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp"})
	require.True(t, created.Success)

	f.guard.count = 3
	f.guard.label = "widgets"
	res := f.engine.Delete(context.Background(), actor, created.Data.ID)
	require.False(t, res.Success)
	require.Equal(t, "referential_conflict", res.Code)
	require.Contains(t, res.Error, "cannot delete gadget, 3 widgets still attached")
	require.Len(t, f.store.rows, 1)

	f.guard.count = 0
	res = f.engine.Delete(context.Background(), actor, created.Data.ID)
	require.True(t, res.Success)
	require.Empty(t, f.store.rows)
}

func TestEnginePublishStampSetOnceAndKept(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	actor := editor()

	created := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp", IsPublished: true})
	require.True(t, created.Success)
	require.NotNil(t, created.Data.PublishedAt)
	stamp := *created.Data.PublishedAt

	unpublished := f.engine.Update(context.Background(), actor, created.Data.ID, gadget{Name: "Lamp", Slug: "lamp", IsPublished: false})
	require.True(t, unpublished.Success)
	require.NotNil(t, unpublished.Data.PublishedAt)
	require.Equal(t, stamp, *unpublished.Data.PublishedAt)

	republished := f.engine.Update(context.Background(), actor, created.Data.ID, gadget{Name: "Lamp", Slug: "lamp", IsPublished: true})
	require.True(t, republished.Success)
	require.Equal(t, stamp, *republished.Data.PublishedAt)
}

func TestEnginePublishRequiresPublishPermission(t *testing.T) {
	f := newEngineFixture(t)
	f.loader.perms[7] = []string{"gadgets.view", "gadgets.create", "gadgets.edit"}
	actor := editor()

	res := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp", IsPublished: true})
	require.False(t, res.Success)
	require.Equal(t, "forbidden", res.Code)
	require.Empty(t, f.store.rows)

	draft := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp"})
	require.True(t, draft.Success)

	flip := f.engine.Update(context.Background(), actor, draft.Data.ID, gadget{Name: "Lamp", Slug: "lamp", IsPublished: true})
	require.False(t, flip.Success)
	require.Equal(t, "forbidden", flip.Code)
}

func TestEngineUnpublishNeedsNoPublishPermission(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	actor := editor()

	created := f.engine.Create(context.Background(), actor, gadget{Name: "Lamp", Slug: "lamp", IsPublished: true})
	require.True(t, created.Success)

	f.loader.perms[7] = []string{"gadgets.view", "gadgets.edit"}
	res := f.engine.Update(context.Background(), actor, created.Data.ID, gadget{Name: "Lamp", Slug: "lamp", IsPublished: false})
	require.True(t, res.Success)
	require.False(t, res.Data.IsPublished)
}

func TestEngineListPaginates(t *testing.T) {
	f := newEngineFixture(t)
	grantAll(f, 7)
	actor := editor()

	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		res := f.engine.Create(context.Background(), actor, gadget{Name: "Gadget " + slug, Slug: slug})
		require.True(t, res.Success)
	}

	page, err := f.engine.List(context.Background(), actor, Filters{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 2, page.PerPage)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 2)
}

func TestEngineListRequiresViewPermission(t *testing.T) {
	f := newEngineFixture(t)
	f.loader.perms[7] = []string{"gadgets.create"}
	_, err := f.engine.List(context.Background(), editor(), Filters{})
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, err = f.engine.Get(context.Background(), nil, 1)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
