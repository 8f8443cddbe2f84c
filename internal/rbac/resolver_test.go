package rbac

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
)

type stubLoader struct {
	perms map[int64][]string
	err   error
	calls int
}

func (l *stubLoader) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.perms[userID], nil
}

func newTestResolver(loader *stubLoader) *Resolver {
	return NewResolver(loader, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolverNilIdentityDenied(t *testing.T) {
	r := newTestResolver(&stubLoader{})
	require.False(t, r.HasPermission(context.Background(), nil, "posts", "view"))
	require.False(t, r.HasAny(context.Background(), nil, "posts.view"))
	require.False(t, r.HasAll(context.Background(), nil, "posts.view"))
}

func TestResolverPermissionFlip(t *testing.T) {
	loader := &stubLoader{perms: map[int64][]string{}}
	r := newTestResolver(loader)
	user := &auth.Identity{ID: 9}

	require.False(t, r.HasPermission(context.Background(), user, "posts", "edit"))

	loader.perms[9] = []string{"posts.edit"}
	require.True(t, r.HasPermission(context.Background(), user, "posts", "edit"))

	loader.perms[9] = nil
	require.False(t, r.HasPermission(context.Background(), user, "posts", "edit"))
}

func TestResolverSuperAdminBypass(t *testing.T) {
	loader := &stubLoader{err: errors.New("unreachable")}
	r := newTestResolver(loader)
	admin := &auth.Identity{ID: 1, SuperAdmin: true}

	require.True(t, r.HasPermission(context.Background(), admin, "settings", "edit"))
	require.True(t, r.HasAny(context.Background(), admin, "no.such.permission"))
	require.True(t, r.HasAll(context.Background(), admin, "posts.view", "posts.edit"))
	require.Zero(t, loader.calls)
}

func TestResolverFailsClosedOnLoaderError(t *testing.T) {
	loader := &stubLoader{err: errors.New("connection refused")}
	r := newTestResolver(loader)
	user := &auth.Identity{ID: 4}

	require.False(t, r.HasPermission(context.Background(), user, "posts", "view"))
	require.False(t, r.HasAll(context.Background(), user, "posts.view"))
}

func TestResolverNormalizesCaseAndWhitespace(t *testing.T) {
	loader := &stubLoader{perms: map[int64][]string{3: {" Posts.View "}}}
	r := newTestResolver(loader)
	user := &auth.Identity{ID: 3}

	require.True(t, r.HasAny(context.Background(), user, "POSTS.VIEW"))
	require.False(t, r.HasAny(context.Background(), user, ""))
}

func TestResolverHasAllRequiresEvery(t *testing.T) {
	loader := &stubLoader{perms: map[int64][]string{5: {"posts.view", "posts.edit"}}}
	r := newTestResolver(loader)
	user := &auth.Identity{ID: 5}

	require.True(t, r.HasAll(context.Background(), user, "posts.view", "posts.edit"))
	require.False(t, r.HasAll(context.Background(), user, "posts.view", "posts.delete"))
}
