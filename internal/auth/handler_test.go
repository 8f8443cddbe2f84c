package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

type fakeAuthRepo struct {
	users     map[string]*User
	sessions  map[string]int64
	destroyed []string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]*User{}, sessions: map[string]int64{}}
}

func (r *fakeAuthRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *fakeAuthRepo) FindIdentity(ctx context.Context, id int64) (*Identity, error) {
	for _, u := range r.users {
		if u.ID == id {
			return &Identity{ID: u.ID, Email: u.Email, Name: u.Name}, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAuthRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	r.sessions[id] = userID
	return nil
}

func (r *fakeAuthRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	r.destroyed = append(r.destroyed, id)
	return nil
}

type loginFixture struct {
	handler  *Handler
	repo     *fakeAuthRepo
	sessions *shared.SessionManager
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newFakeAuthRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["ana@example.com"] = &User{
		ID:           1,
		Email:        "ana@example.com",
		Name:         "Ana",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := shared.NewSessionManager(client, "test_session", "session-secret", time.Hour, false)
	handler := NewHandler(logger, NewService(repo), sessions, shared.NewCSRFManager("csrf-secret"))
	return &loginFixture{handler: handler, repo: repo, sessions: sessions}
}

// withSession mirrors the app middleware: every request carries a session.
func (f *loginFixture) router() chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := f.sessions.Load(req.Context(), req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	f.handler.MountRoutes(r)
	return r
}

func postLogin(t *testing.T, r chi.Router, body string) (*httptest.ResponseRecorder, loginResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLoginSuccessIssuesCSRFToken(t *testing.T) {
	f := newLoginFixture(t)
	rec, resp := postLogin(t, f.router(), `{"email":"ana@example.com","password":"hunter2hunter2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.CSRFToken)
	require.NotNil(t, resp.Data)
	require.Equal(t, int64(1), resp.Data.ID)
	require.Len(t, f.repo.sessions, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newLoginFixture(t)
	rec, resp := postLogin(t, f.router(), `{"email":"ana@example.com","password":"wrongpassword"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, resp.Success)
	require.Equal(t, "unauthorized", resp.Code)
	require.Empty(t, f.repo.sessions)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newLoginFixture(t)
	rec, resp := postLogin(t, f.router(), `{"email":"ghost@example.com","password":"hunter2hunter2"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, resp.Success)
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	f := newLoginFixture(t)
	f.repo.users["ana@example.com"].IsActive = false

	rec, _ := postLogin(t, f.router(), `{"email":"ana@example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidatesInput(t *testing.T) {
	f := newLoginFixture(t)
	rec, resp := postLogin(t, f.router(), `{"email":"not-an-email","password":"hunter2hunter2"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_failed", resp.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newLoginFixture(t)
	r := f.router()

	loginRec, _ := postLogin(t, r, `{"email":"ana@example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusOK, loginRec.Code)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, f.repo.destroyed)
}

func TestMeRequiresIdentity(t *testing.T) {
	f := newLoginFixture(t)
	r := f.router()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsContextIdentity(t *testing.T) {
	f := newLoginFixture(t)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			identity := &Identity{ID: 1, Email: "ana@example.com", Name: "Ana"}
			next.ServeHTTP(w, req.WithContext(ContextWithIdentity(req.Context(), identity)))
		})
	})
	f.handler.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "ana@example.com", resp.Data.Email)
}
