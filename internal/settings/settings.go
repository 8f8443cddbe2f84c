// Package settings manages the site-wide key/value configuration exposed to
// the public site. Writes are upserts keyed by the setting name.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Setting is one site configuration entry.
type Setting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key" validate:"required,max=120"`
	Value       string    `json:"value"`
	Description string    `json:"description" validate:"max=300"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Service lists and upserts settings.
type Service struct {
	pool     *pgxpool.Pool
	authz    *rbac.Resolver
	recorder *audit.Recorder
	pages    cache.Invalidator
	logger   *slog.Logger
}

// NewService constructs the settings service.
func NewService(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Service {
	return &Service{pool: pool, authz: authz, recorder: recorder, pages: pages, logger: logger}
}

// List returns every setting ordered by key.
func (s *Service) List(ctx context.Context, actor *auth.Identity) ([]Setting, error) {
	if actor == nil {
		return nil, shared.ErrUnauthorized
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleSettings, shared.ActionView) {
		return nil, shared.ErrForbidden
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, key, value, description, created_at, updated_at FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Setting{}
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Upsert writes a setting by key, creating it when missing.
func (s *Service) Upsert(ctx context.Context, actor *auth.Identity, input Setting) crud.Result[Setting] {
	if actor == nil {
		return crud.Fail[Setting](shared.ErrUnauthorized)
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleSettings, shared.ActionEdit) {
		return crud.Fail[Setting](shared.ErrForbidden)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[Setting](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	var st Setting
	err := s.pool.QueryRow(ctx,
		`INSERT INTO site_settings (key, value, description) VALUES ($1, $2, $3)
		 ON CONFLICT ON CONSTRAINT site_settings_key_key
		 DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = NOW()
		 RETURNING id, key, value, description, created_at, updated_at`,
		input.Key, input.Value, input.Description,
	).Scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return crud.Fail[Setting](db.Classify(err))
	}
	if s.recorder != nil {
		s.recorder.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "setting.upsert",
			Entity:   "setting",
			EntityID: st.Key,
			Meta:     map[string]any{"after": st},
			At:       time.Now(),
		})
	}
	if s.pages != nil {
		s.pages.Invalidate(ctx, "settings")
	}
	return crud.OK(st, "setting saved")
}
