// Package media handles image uploads for content modules. Objects land in
// the configured S3 bucket and are addressed by their public URL from then
// on; nothing about them is stored in PostgreSQL.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 10 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectStore is the object storage surface the service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}

// Upload is the result of a stored object.
type Upload struct {
	URL string `json:"url"`
}

// Service uploads and deletes media objects.
type Service struct {
	store    ObjectStore
	authz    *rbac.Resolver
	recorder *audit.Recorder
	logger   *slog.Logger
}

// NewService constructs the media service.
func NewService(store ObjectStore, authz *rbac.Resolver, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{store: store, authz: authz, recorder: recorder, logger: logger}
}

// Store validates the file type and writes the object under a dated,
// collision-free key.
func (s *Service) Store(ctx context.Context, actor *auth.Identity, file multipart.File, header *multipart.FileHeader) (Upload, error) {
	if actor == nil {
		return Upload{}, shared.ErrUnauthorized
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleMedia, shared.ActionCreate) {
		return Upload{}, shared.ErrForbidden
	}
	if header.Size > MaxUploadBytes {
		return Upload{}, fmt.Errorf("%w: file exceeds %d MB", shared.ErrValidation, MaxUploadBytes>>20)
	}
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return Upload{}, fmt.Errorf("%w: unsupported file type %q", shared.ErrValidation, contentType)
	}
	if fromName := strings.ToLower(filepath.Ext(header.Filename)); fromName != "" {
		ext = fromName
	}

	key := fmt.Sprintf("uploads/%s/%s%s", time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)
	url, err := s.store.Upload(ctx, key, file, contentType)
	if err != nil {
		return Upload{}, err
	}
	s.record(ctx, actor, "media.upload", url, map[string]any{"key": key, "size": header.Size})
	return Upload{URL: url}, nil
}

// Remove deletes an object by its public URL.
func (s *Service) Remove(ctx context.Context, actor *auth.Identity, url string) error {
	if actor == nil {
		return shared.ErrUnauthorized
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleMedia, shared.ActionDelete) {
		return shared.ErrForbidden
	}
	if url == "" {
		return fmt.Errorf("%w: url is required", shared.ErrValidation)
	}
	if err := s.store.DeleteByURL(ctx, url); err != nil {
		return err
	}
	s.record(ctx, actor, "media.delete", url, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor *auth.Identity, action, entityID string, meta map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "media",
		EntityID: entityID,
		Meta:     meta,
		At:       time.Now(),
	})
}
