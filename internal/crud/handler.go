package crud

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
)

// RestHandler exposes an engine as the standard five REST endpoints. The
// engine performs its own permission gating, so no route middleware is
// required beyond the identity loader.
type RestHandler[T any] struct {
	Logger *slog.Logger
	Engine *Engine[T]
	// Decode overrides JSON body decoding when an entity needs custom
	// parsing. Nil means plain JSON into T.
	Decode func(r *http.Request) (T, error)
}

// MountRoutes registers the REST routes on the router.
func (h *RestHandler[T]) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *RestHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	actor := auth.IdentityFromContext(r.Context())
	page, err := h.Engine.List(r.Context(), actor, FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logError(r, "list", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *RestHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	entity, err := h.Engine.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": entity})
}

func (h *RestHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.Engine.Create(r.Context(), actor, input)
	if !res.Success {
		h.logResult(r, "create", res)
	}
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *RestHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.Engine.Update(r.Context(), actor, id, input)
	if !res.Success {
		h.logResult(r, "update", res)
	}
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *RestHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := h.Engine.Delete(r.Context(), actor, id)
	if !res.Success {
		h.logResult(r, "delete", res)
	}
	httpx.JSON(w, res.HTTPStatus(), res)
}

func (h *RestHandler[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var input T
	if h.Decode != nil {
		decoded, err := h.Decode(r)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
			return input, false
		}
		return decoded, true
	}
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return input, false
	}
	return input, true
}

func (h *RestHandler[T]) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return 0, false
	}
	return id, true
}

func (h *RestHandler[T]) logError(r *http.Request, op string, err error) {
	if h.Logger != nil {
		h.Logger.Error(h.Engine.Descriptor().Entity+" "+op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

func (h *RestHandler[T]) logResult(r *http.Request, op string, res Result[T]) {
	if h.Logger != nil && res.Code == "storage_unavailable" {
		h.Logger.Error(h.Engine.Descriptor().Entity+" "+op, slog.String("path", r.URL.Path), slog.String("error", res.Error))
	}
}
