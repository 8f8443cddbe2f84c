package promotions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists promotions in PostgreSQL. Reads join the tenant name.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the promotion repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `p.id, p.title, p.code, p.description, p.image_url, p.tenant_id, COALESCE(t.name, ''),
	p.starts_at, p.ends_at, p.is_published, p.published_at, p.created_at, p.updated_at`

var sortColumns = map[string]string{
	"title":     "p.title",
	"startsAt":  "p.starts_at",
	"createdAt": "p.created_at",
}

func scanPromotion(row interface{ Scan(...any) error }) (Promotion, error) {
	var p Promotion
	err := row.Scan(&p.ID, &p.Title, &p.Code, &p.Description, &p.ImageURL, &p.TenantID, &p.TenantName,
		&p.StartsAt, &p.EndsAt, &p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns promotions matching the filters plus the unpaginated total.
// The status filter accepts published, draft, active and expired.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]Promotion, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(p.title ILIKE $%d OR p.code ILIKE $%d)", len(args), len(args)))
	}
	switch f.Status {
	case "published":
		where = append(where, "p.is_published")
	case "draft":
		where = append(where, "NOT p.is_published")
	case "active":
		args = append(args, time.Now())
		where = append(where, fmt.Sprintf("p.is_published AND (p.starts_at IS NULL OR p.starts_at <= $%d) AND (p.ends_at IS NULL OR p.ends_at >= $%d)", len(args), len(args)))
	case "expired":
		args = append(args, time.Now())
		where = append(where, fmt.Sprintf("p.ends_at IS NOT NULL AND p.ends_at < $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM promotions p WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := sortColumns[f.SortBy]
	if order == "" {
		order = "p.created_at"
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(
		`SELECT %s FROM promotions p LEFT JOIN tenants t ON t.id = p.tenant_id
		 WHERE %s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		selectColumns, cond, order, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Get fetches one promotion by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Promotion, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM promotions p LEFT JOIN tenants t ON t.id = p.tenant_id WHERE p.id = $1`, id)
	return scanPromotion(row)
}

// Insert creates a promotion and returns the stored row.
func (r *Repository) Insert(ctx context.Context, p Promotion) (Promotion, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO promotions (title, code, description, image_url, tenant_id, starts_at, ends_at, is_published, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		p.Title, p.Code, p.Description, p.ImageURL, p.TenantID, p.StartsAt, p.EndsAt, p.IsPublished, p.PublishedAt,
	).Scan(&id)
	if err != nil {
		return Promotion{}, err
	}
	return r.Get(ctx, id)
}

// Update rewrites a promotion and returns the stored row.
func (r *Repository) Update(ctx context.Context, id int64, p Promotion) (Promotion, error) {
	_, err := r.pool.Exec(ctx,
		`UPDATE promotions SET title = $2, code = $3, description = $4, image_url = $5, tenant_id = $6,
		        starts_at = $7, ends_at = $8, is_published = $9, published_at = $10, updated_at = NOW()
		 WHERE id = $1`,
		id, p.Title, p.Code, p.Description, p.ImageURL, p.TenantID, p.StartsAt, p.EndsAt, p.IsPublished, p.PublishedAt)
	if err != nil {
		return Promotion{}, err
	}
	return r.Get(ctx, id)
}

// Delete removes a promotion.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	return err
}

// FindByIDs fetches promotions for homepage reference resolution.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Promotion, error) {
	if len(ids) == 0 {
		return map[int64]Promotion{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM promotions p LEFT JOIN tenants t ON t.id = p.tenant_id WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Promotion, len(ids))
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

var _ crud.Store[Promotion] = (*Repository)(nil)
