package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/contacts"
	"github.com/arcadia-mall/arcadia-admin/internal/content/categories"
	"github.com/arcadia-mall/arcadia-admin/internal/content/events"
	"github.com/arcadia-mall/arcadia-admin/internal/content/posts"
	"github.com/arcadia-mall/arcadia-admin/internal/content/promotions"
	"github.com/arcadia-mall/arcadia-admin/internal/content/tenants"
	"github.com/arcadia-mall/arcadia-admin/internal/homepage"
	"github.com/arcadia-mall/arcadia-admin/internal/media"
	"github.com/arcadia-mall/arcadia-admin/internal/observability"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/settings"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
	"github.com/arcadia-mall/arcadia-admin/internal/users"
	"github.com/arcadia-mall/arcadia-admin/internal/vip"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	AuthMiddleware auth.Middleware

	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	RBACHandler     *rbac.Handler
	AuditHandler    *audit.Handler
	Categories      *categories.Module
	Tenants         *tenants.Module
	Posts           *posts.Module
	Events          *events.Module
	Promotions      *promotions.Module
	VIP             *vip.Module
	Homepage        *homepage.Module
	SettingsHandler *settings.Handler
	ContactsHandler *contacts.Handler
	MediaHandler    *media.Handler
}

// NewRouter constructs the chi.Router for the admin API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(params.AuthMiddleware.LoadIdentity)

		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RBACHandler.MountRoutes)
		r.Route("/permissions", params.RBACHandler.MountPermissionRoutes)
		r.Route("/audit", params.AuditHandler.MountRoutes)

		r.Route("/categories", params.Categories.MountRoutes)
		r.Route("/tenants", params.Tenants.MountRoutes)
		r.Route("/posts", params.Posts.MountRoutes)
		r.Route("/events", params.Events.MountRoutes)
		r.Route("/promotions", params.Promotions.MountRoutes)
		r.Route("/vip", params.VIP.MountRoutes)
		r.Route("/homepage", params.Homepage.MountRoutes)
		r.Route("/settings", params.SettingsHandler.MountRoutes)
		r.Route("/contacts", params.ContactsHandler.MountRoutes)
		r.Route("/media", params.MediaHandler.MountRoutes)
	})

	return r
}
