package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
)

// Handler exposes the media endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the media handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the media routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.upload)
	r.Delete("/", h.remove)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "file field is required")
		return
	}
	defer file.Close()

	actor := auth.IdentityFromContext(r.Context())
	up, err := h.service.Store(r.Context(), actor, file, header)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": up})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := auth.IdentityFromContext(r.Context())
	if err := h.service.Remove(r.Context(), actor, r.URL.Query().Get("url")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
