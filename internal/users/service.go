package users

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Service manages admin accounts. Accounts are deactivated, never deleted,
// so audit rows keep a resolvable actor.
type Service struct {
	repo     *Repository
	roles    *rbac.Service
	authz    *rbac.Resolver
	recorder *audit.Recorder
	logger   *slog.Logger
}

// NewService constructs the user service.
func NewService(repo *Repository, roles *rbac.Service, authz *rbac.Resolver, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, roles: roles, authz: authz, recorder: recorder, logger: logger}
}

// List returns a page of accounts.
func (s *Service) List(ctx context.Context, actor *auth.Identity, f crud.Filters) (crud.Page[AdminUser], error) {
	if err := s.gate(ctx, actor, shared.PermUsersView); err != nil {
		return crud.Page[AdminUser]{}, err
	}
	f = f.Normalize()
	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return crud.Page[AdminUser]{}, err
	}
	return crud.NewPage(rows, total, f), nil
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, actor *auth.Identity, id int64) (AdminUser, error) {
	if err := s.gate(ctx, actor, shared.PermUsersView); err != nil {
		return AdminUser{}, err
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return AdminUser{}, db.Classify(err)
	}
	return u, nil
}

// Create registers a new account with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, actor *auth.Identity, input CreateInput) crud.Result[AdminUser] {
	if err := s.gate(ctx, actor, shared.PermUsersEdit); err != nil {
		return crud.Fail[AdminUser](err)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[AdminUser](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return crud.Fail[AdminUser](err)
	}
	u, err := s.repo.Insert(ctx, normalizeEmail(input.Email), input.Name, string(hash))
	if err != nil {
		return crud.Fail[AdminUser](s.mapStorageError(err))
	}
	s.record(ctx, actor, "user.create", u.ID, map[string]any{"after": u})
	return crud.OK(u, "user created")
}

// Update edits an account; an empty password keeps the current one.
func (s *Service) Update(ctx context.Context, actor *auth.Identity, id int64, input UpdateInput) crud.Result[AdminUser] {
	if err := s.gate(ctx, actor, shared.PermUsersEdit); err != nil {
		return crud.Fail[AdminUser](err)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[AdminUser](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	var hash string
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return crud.Fail[AdminUser](err)
		}
		hash = string(hashed)
	}
	u, err := s.repo.Update(ctx, id, normalizeEmail(input.Email), input.Name, hash, input.IsActive)
	if err != nil {
		return crud.Fail[AdminUser](s.mapStorageError(err))
	}
	s.record(ctx, actor, "user.update", id, map[string]any{"before": prev, "after": u})
	return crud.OK(u, "user updated")
}

// Deactivate disables an account. Self-deactivation is rejected so the last
// session holder cannot lock themselves out mid-request.
func (s *Service) Deactivate(ctx context.Context, actor *auth.Identity, id int64) crud.Result[AdminUser] {
	if err := s.gate(ctx, actor, shared.PermUsersEdit); err != nil {
		return crud.Fail[AdminUser](err)
	}
	if actor.ID == id {
		return crud.Fail[AdminUser](fmt.Errorf("%w: cannot deactivate your own account", shared.ErrValidation))
	}
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	u, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	s.record(ctx, actor, "user.deactivate", id, map[string]any{"before": prev})
	return crud.OK(u, "user deactivated")
}

// AssignRole attaches a role to an account.
func (s *Service) AssignRole(ctx context.Context, actor *auth.Identity, userID int64, input RoleInput) crud.Result[AdminUser] {
	if err := s.gate(ctx, actor, shared.PermUsersEdit); err != nil {
		return crud.Fail[AdminUser](err)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[AdminUser](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	if err := s.roles.AssignRole(ctx, userID, input.RoleID); err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	s.record(ctx, actor, "user.assign_role", userID, map[string]any{"role_id": input.RoleID})
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	return crud.OK(u, "role assigned")
}

// RemoveRole detaches a role from an account.
func (s *Service) RemoveRole(ctx context.Context, actor *auth.Identity, userID, roleID int64) crud.Result[AdminUser] {
	if err := s.gate(ctx, actor, shared.PermUsersEdit); err != nil {
		return crud.Fail[AdminUser](err)
	}
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	if err := s.roles.RemoveRole(ctx, userID, roleID); err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	s.record(ctx, actor, "user.remove_role", userID, map[string]any{"role_id": roleID})
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return crud.Fail[AdminUser](db.Classify(err))
	}
	return crud.OK(u, "role removed")
}

func (s *Service) gate(ctx context.Context, actor *auth.Identity, perm string) error {
	if actor == nil {
		return shared.ErrUnauthorized
	}
	if !s.authz.HasAny(ctx, actor, perm) {
		return shared.ErrForbidden
	}
	return nil
}

func (s *Service) mapStorageError(err error) error {
	classified := db.Classify(err)
	if db.ConstraintName(err) == "admin_users_email_key" {
		return fmt.Errorf("%w: a user with that email already exists", shared.ErrDuplicate)
	}
	return classified
}

func (s *Service) record(ctx context.Context, actor *auth.Identity, action string, id int64, meta map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
		At:       time.Now(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
