package tenants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists tenants in PostgreSQL. Category names are merged in
// memory from a second query keyed by the distinct category IDs of the page,
// keeping the listing query free of joins.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the tenant repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, name, slug, category_id, floor, unit, logo_url, description, phone, website, opening_hours, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"name":      "name",
	"floor":     "floor",
	"createdAt": "created_at",
}

func scanTenant(row interface{ Scan(...any) error }) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CategoryID,
		&t.Floor, &t.Unit, &t.LogoURL, &t.Description, &t.Phone, &t.Website, &t.OpeningHours,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns tenants matching the filters plus the unpaginated total.
// The category filter accepts a category slug.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]Tenant, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR slug ILIKE $%d OR description ILIKE $%d)", len(args), len(args), len(args)))
	}
	if f.Category != "" {
		categoryID, err := r.categoryIDBySlug(ctx, f.Category)
		if err != nil {
			return nil, 0, err
		}
		if categoryID == 0 {
			return []Tenant{}, 0, nil
		}
		args = append(args, categoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	switch f.Status {
	case "active":
		where = append(where, "is_active")
	case "inactive":
		where = append(where, "NOT is_active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenants WHERE "+cond, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		selectColumns, cond, order, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.mergeCategoryNames(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get fetches one tenant by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err != nil {
		return Tenant{}, err
	}
	one := []Tenant{t}
	if err := r.mergeCategoryNames(ctx, one); err != nil {
		return Tenant{}, err
	}
	return one[0], nil
}

// Insert creates a tenant and returns the stored row.
func (r *Repository) Insert(ctx context.Context, t Tenant) (Tenant, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tenants (name, slug, category_id, floor, unit, logo_url, description, phone, website, opening_hours, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		t.Name, t.Slug, t.CategoryID, t.Floor, t.Unit, t.LogoURL, t.Description, t.Phone, t.Website, t.OpeningHours, t.IsActive,
	).Scan(&id)
	if err != nil {
		return Tenant{}, err
	}
	return r.Get(ctx, id)
}

// Update rewrites a tenant and returns the stored row.
func (r *Repository) Update(ctx context.Context, id int64, t Tenant) (Tenant, error) {
	_, err := r.pool.Exec(ctx,
		`UPDATE tenants SET name = $2, slug = $3, category_id = $4, floor = $5, unit = $6, logo_url = $7,
		        description = $8, phone = $9, website = $10, opening_hours = $11, is_active = $12, updated_at = NOW()
		 WHERE id = $1`,
		id, t.Name, t.Slug, t.CategoryID, t.Floor, t.Unit, t.LogoURL, t.Description, t.Phone, t.Website, t.OpeningHours, t.IsActive)
	if err != nil {
		return Tenant{}, err
	}
	return r.Get(ctx, id)
}

// Delete removes a tenant.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return err
}

// FindByIDs fetches tenants for homepage reference resolution.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Tenant, error) {
	if len(ids) == 0 {
		return map[int64]Tenant{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM tenants WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.mergeCategoryNames(ctx, all); err != nil {
		return nil, err
	}
	out := make(map[int64]Tenant, len(all))
	for _, t := range all {
		out[t.ID] = t
	}
	return out, nil
}

// CountPromotions reports how many promotions reference the tenant.
func (r *Repository) CountPromotions(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM promotions WHERE tenant_id = $1`, id).Scan(&n)
	return n, err
}

// mergeCategoryNames fills CategoryName from a single lookup over the
// distinct category IDs present in the slice.
func (r *Repository) mergeCategoryNames(ctx context.Context, ts []Tenant) error {
	idSet := map[int64]bool{}
	for _, t := range ts {
		if t.CategoryID != nil {
			idSet[*t.CategoryID] = true
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM tenant_categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range ts {
		if ts[i].CategoryID != nil {
			ts[i].CategoryName = names[*ts[i].CategoryID]
		}
	}
	return nil
}

func (r *Repository) categoryIDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM tenant_categories WHERE slug = $1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

var _ crud.Store[Tenant] = (*Repository)(nil)
