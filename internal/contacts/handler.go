package contacts

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
)

// Handler exposes the contact submission endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the contacts handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the contact routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}/status", h.setStatus)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := auth.IdentityFromContext(r.Context())
	page, err := h.service.List(r.Context(), actor, crud.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	sub, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": sub})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var input StatusInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.SetStatus(r.Context(), actor, id, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.Delete(r.Context(), actor, id)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return 0, false
	}
	return id, true
}
