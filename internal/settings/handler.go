package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
)

// Handler exposes the settings endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the settings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.upsert)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := auth.IdentityFromContext(r.Context())
	out, err := h.service.List(r.Context(), actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var input Setting
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.Upsert(r.Context(), actor, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}
