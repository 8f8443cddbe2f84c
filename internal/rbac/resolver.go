package rbac

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
)

// PermissionLoader resolves a user's effective permission names
// (roles expanded to permissions, deduplicated).
type PermissionLoader interface {
	EffectivePermissions(ctx context.Context, userID int64) ([]string, error)
}

// Resolver answers "can this identity perform action A on module M".
// A nil identity always resolves to false; the super admin identity always
// resolves to true without touching the loader; a loader failure resolves to
// false (fail closed) and is only logged.
type Resolver struct {
	loader PermissionLoader
	logger *slog.Logger
	group  singleflight.Group
}

// NewResolver constructs a Resolver.
func NewResolver(loader PermissionLoader, logger *slog.Logger) *Resolver {
	return &Resolver{loader: loader, logger: logger}
}

// HasPermission reports whether the identity may perform module.action.
func (r *Resolver) HasPermission(ctx context.Context, identity *auth.Identity, module, action string) bool {
	return r.HasAny(ctx, identity, PermissionName(module, action))
}

// HasAny reports whether the identity holds at least one of the permissions.
func (r *Resolver) HasAny(ctx context.Context, identity *auth.Identity, perms ...string) bool {
	if identity == nil {
		return false
	}
	if identity.SuperAdmin {
		return true
	}
	granted, ok := r.granted(ctx, identity.ID)
	if !ok {
		return false
	}
	for _, p := range normalizePermissions(perms) {
		if _, found := granted[p]; found {
			return true
		}
	}
	return false
}

// HasAll reports whether the identity holds every one of the permissions.
func (r *Resolver) HasAll(ctx context.Context, identity *auth.Identity, perms ...string) bool {
	if identity == nil {
		return false
	}
	if identity.SuperAdmin {
		return true
	}
	granted, ok := r.granted(ctx, identity.ID)
	if !ok {
		return false
	}
	for _, p := range normalizePermissions(perms) {
		if _, found := granted[p]; !found {
			return false
		}
	}
	return true
}

// granted loads the effective permission set, collapsing concurrent lookups
// for the same user into one storage round trip.
func (r *Resolver) granted(ctx context.Context, userID int64) (map[string]struct{}, bool) {
	key := strconv.FormatInt(userID, 10)
	v, err, _ := r.group.Do(key, func() (any, error) {
		perms, err := r.loader.EffectivePermissions(ctx, userID)
		if err != nil {
			return nil, err
		}
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
		}
		return set, nil
	})
	if err != nil {
		if r.logger != nil {
			r.logger.Error("load effective permissions", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return nil, false
	}
	return v.(map[string]struct{}), true
}

func normalizePermissions(perms []string) []string {
	normalized := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}
