package homepage

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// MountRoutes registers item CRUD, the reorder endpoint and the resolved
// feed preview.
func (m *Module) MountRoutes(r chi.Router) {
	rest := &crud.RestHandler[Item]{Logger: m.logger, Engine: m.Engine}

	r.Get("/feed", m.feed)
	r.Put("/reorder", m.reorder)
	rest.MountRoutes(r)
}

func (m *Module) feed(w http.ResponseWriter, r *http.Request) {
	actor := auth.IdentityFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	if !m.authz.HasPermission(r.Context(), actor, shared.ModuleHomepage, shared.ActionView) {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	cards, err := m.Feed(r.Context())
	if err != nil {
		m.logger.Error("homepage feed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": cards})
}

func (m *Module) reorder(w http.ResponseWriter, r *http.Request) {
	var input ReorderInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := m.Reorder(r.Context(), actor, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}
