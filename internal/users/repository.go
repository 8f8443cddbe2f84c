package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists admin accounts in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, email, name, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (AdminUser, error) {
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List returns accounts matching the filters plus the unpaginated total.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]AdminUser, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(email ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	switch f.Status {
	case "active":
		where = append(where, "is_active")
	case "inactive":
		where = append(where, "NOT is_active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admin_users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE %s ORDER BY email LIMIT $%d OFFSET $%d`,
		selectColumns, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []AdminUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.mergeRoles(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get fetches one account with its role slugs.
func (r *Repository) Get(ctx context.Context, id int64) (AdminUser, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM admin_users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return AdminUser{}, err
	}
	one := []AdminUser{u}
	if err := r.mergeRoles(ctx, one); err != nil {
		return AdminUser{}, err
	}
	return one[0], nil
}

// Insert creates an account with a pre-hashed password.
func (r *Repository) Insert(ctx context.Context, email, name, passwordHash string) (AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING `+selectColumns,
		email, name, passwordHash)
	return scanUser(row)
}

// Update rewrites account fields; an empty hash keeps the stored password.
func (r *Repository) Update(ctx context.Context, id int64, email, name, passwordHash string, isActive bool) (AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE admin_users SET email = $2, name = $3,
		        password_hash = CASE WHEN $4 = '' THEN password_hash ELSE $4 END,
		        is_active = $5, updated_at = NOW()
		 WHERE id = $1 RETURNING `+selectColumns,
		id, email, name, passwordHash, isActive)
	u, err := scanUser(row)
	if err != nil {
		return AdminUser{}, err
	}
	one := []AdminUser{u}
	if err := r.mergeRoles(ctx, one); err != nil {
		return AdminUser{}, err
	}
	return one[0], nil
}

// Deactivate flags an account inactive, keeping its audit trail intact.
func (r *Repository) Deactivate(ctx context.Context, id int64) (AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE admin_users SET is_active = FALSE, updated_at = NOW() WHERE id = $1 RETURNING `+selectColumns, id)
	return scanUser(row)
}

// mergeRoles fills role slugs from one query over all listed user IDs.
func (r *Repository) mergeRoles(ctx context.Context, us []AdminUser) error {
	if len(us) == 0 {
		return nil
	}
	ids := make([]int64, len(us))
	for i, u := range us {
		ids[i] = u.ID
	}
	rows, err := r.pool.Query(ctx,
		`SELECT ur.user_id, ro.slug
		 FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id
		 WHERE ur.user_id = ANY($1)
		 ORDER BY ro.slug`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	bySlug := map[int64][]string{}
	for rows.Next() {
		var userID int64
		var slug string
		if err := rows.Scan(&userID, &slug); err != nil {
			return err
		}
		bySlug[userID] = append(bySlug[userID], slug)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range us {
		us[i].Roles = bySlug[us[i].ID]
	}
	return nil
}
