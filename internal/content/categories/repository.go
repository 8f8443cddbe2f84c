package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists tenant categories in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the category repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var sortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

// List returns categories matching the filters plus the unpaginated total.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]Category, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR slug ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenant_categories WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := sortColumns[f.SortBy]
	if order == "" {
		order = "name"
	}
	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}
	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(
		`SELECT id, name, slug, created_at, updated_at FROM tenant_categories WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		cond, order, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Get fetches one category by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM tenant_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Insert creates a category and returns the stored row.
func (r *Repository) Insert(ctx context.Context, c Category) (Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tenant_categories (name, slug) VALUES ($1, $2)
		 RETURNING id, name, slug, created_at, updated_at`,
		c.Name, c.Slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Update rewrites a category and returns the stored row.
func (r *Repository) Update(ctx context.Context, id int64, c Category) (Category, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE tenant_categories SET name = $2, slug = $3, updated_at = NOW() WHERE id = $1
		 RETURNING id, name, slug, created_at, updated_at`,
		id, c.Name, c.Slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Delete removes a category.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tenant_categories WHERE id = $1`, id)
	return err
}

// CountTenants reports how many tenants reference the category.
func (r *Repository) CountTenants(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE category_id = $1`, id).Scan(&n)
	return n, err
}

var _ crud.Store[Category] = (*Repository)(nil)
