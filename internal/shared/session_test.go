package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T, ttl time.Duration) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", "secret-key", ttl, false), mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionCommitThenLoadRoundTrip(t *testing.T) {
	sm, _ := newTestSessionManager(t, time.Hour)
	ctx := context.Background()

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, first)
	require.NoError(t, err)
	sess.SetUser("42")
	sess.Set("theme", "dark")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, first, sess))
	cookie := sessionCookie(t, rec, sm.CookieName())
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	loaded, err := sm.Load(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "42", loaded.User())
	require.Equal(t, "dark", loaded.Get("theme"))
	require.Equal(t, sess.ID, loaded.ID)
}

func TestSessionMissingCookieYieldsAnonymous(t *testing.T) {
	sm, _ := newTestSessionManager(t, time.Hour)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Empty(t, sess.User())
}

func TestSessionExpiredEqualsAbsent(t *testing.T) {
	ttl := time.Minute
	sm, mr := newTestSessionManager(t, ttl)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("42")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookie := sessionCookie(t, rec, sm.CookieName())

	mr.FastForward(ttl + time.Second)

	replay := httptest.NewRequest(http.MethodGet, "/", nil)
	replay.AddCookie(cookie)
	loaded, err := sm.Load(ctx, replay)
	require.NoError(t, err)
	require.Empty(t, loaded.User())
	require.Empty(t, loaded.Get("theme"))
}

func TestSessionContextRoundTrip(t *testing.T) {
	sess := &Session{ID: "abc"}
	ctx := ContextWithSession(context.Background(), sess)
	require.Same(t, sess, SessionFromContext(ctx))
	require.Nil(t, SessionFromContext(context.Background()))
	require.Nil(t, SessionFromContext(ContextWithSession(context.Background(), nil)))
}

func TestSessionDestroyDeletesAndClearsCookie(t *testing.T) {
	sm, mr := newTestSessionManager(t, time.Hour)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("42")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	require.True(t, mr.Exists("session:"+sess.ID))

	sm.Destroy(sess)
	clearRec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, clearRec, req, sess))
	require.False(t, mr.Exists("session:"+sess.ID))

	cookie := sessionCookie(t, clearRec, sm.CookieName())
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}
