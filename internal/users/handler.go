package users

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
)

// Handler exposes the admin account endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the account routes. DELETE deactivates.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
	r.Post("/{id}/roles", h.assignRole)
	r.Delete("/{id}/roles/{roleID}", h.removeRole)
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
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	u, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": u})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.Create(r.Context(), actor, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.Update(r.Context(), actor, id, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.Deactivate(r.Context(), actor, id)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var input RoleInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.AssignRole(r.Context(), actor, id, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *Handler) removeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	roleID, ok := parseID(w, r, "roleID")
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.service.RemoveRole(r.Context(), actor, id, roleID)
	httpx.JSON(w, res.HTTPStatus(), res)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return 0, false
	}
	return id, true
}
