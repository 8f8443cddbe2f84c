// Package contacts handles contact form submissions from the public site.
// The admin surface only reads, triages and deletes; rows are created by
// the site itself.
package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Triage states for a submission.
const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusArchived = "archived"
)

// Submission is one contact form entry.
type Submission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusInput is the triage payload.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=new read archived"`
}

// Service lists and triages submissions.
type Service struct {
	pool     *pgxpool.Pool
	authz    *rbac.Resolver
	recorder *audit.Recorder
	logger   *slog.Logger
}

// NewService constructs the contacts service.
func NewService(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{pool: pool, authz: authz, recorder: recorder, logger: logger}
}

const selectColumns = `id, name, email, subject, message, status, created_at, updated_at`

// List returns submissions newest first, optionally filtered by status and
// a search over name, email and subject.
func (s *Service) List(ctx context.Context, actor *auth.Identity, f crud.Filters) (crud.Page[Submission], error) {
	if actor == nil {
		return crud.Page[Submission]{}, shared.ErrUnauthorized
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleContacts, shared.ActionView) {
		return crud.Page[Submission]{}, shared.ErrForbidden
	}
	f = f.Normalize()

	where := []string{"TRUE"}
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR subject ILIKE $%d)", len(args), len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contact_submissions WHERE "+cond, args...).Scan(&total); err != nil {
		return crud.Page[Submission]{}, err
	}

	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(`SELECT %s FROM contact_submissions WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		selectColumns, cond, len(args)-1, len(args))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return crud.Page[Submission]{}, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return crud.Page[Submission]{}, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return crud.Page[Submission]{}, err
	}
	return crud.NewPage(out, total, f), nil
}

// Get fetches one submission.
func (s *Service) Get(ctx context.Context, actor *auth.Identity, id int64) (Submission, error) {
	if actor == nil {
		return Submission{}, shared.ErrUnauthorized
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleContacts, shared.ActionView) {
		return Submission{}, shared.ErrForbidden
	}
	var sub Submission
	err := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM contact_submissions WHERE id = $1`, id).
		Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return Submission{}, db.Classify(err)
	}
	return sub, nil
}

// SetStatus moves a submission between triage states.
func (s *Service) SetStatus(ctx context.Context, actor *auth.Identity, id int64, input StatusInput) crud.Result[Submission] {
	if actor == nil {
		return crud.Fail[Submission](shared.ErrUnauthorized)
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleContacts, shared.ActionEdit) {
		return crud.Fail[Submission](shared.ErrForbidden)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[Submission](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	var sub Submission
	err := s.pool.QueryRow(ctx,
		`UPDATE contact_submissions SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+selectColumns,
		id, input.Status,
	).Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return crud.Fail[Submission](db.Classify(err))
	}
	s.record(ctx, actor, "contact.set_status", id, map[string]any{"status": sub.Status})
	return crud.OK(sub, "submission updated")
}

// Delete removes a submission.
func (s *Service) Delete(ctx context.Context, actor *auth.Identity, id int64) crud.Result[Submission] {
	if actor == nil {
		return crud.Fail[Submission](shared.ErrUnauthorized)
	}
	if !s.authz.HasPermission(ctx, actor, shared.ModuleContacts, shared.ActionDelete) {
		return crud.Fail[Submission](shared.ErrForbidden)
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return crud.Fail[Submission](db.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return crud.Fail[Submission](shared.ErrNotFound)
	}
	s.record(ctx, actor, "contact.delete", id, nil)
	return crud.Result[Submission]{Success: true, Message: "submission deleted"}
}

func (s *Service) record(ctx context.Context, actor *auth.Identity, action string, id int64, meta map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "contact",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
		At:       time.Now(),
	})
}
