package homepage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists homepage items in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the homepage item repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, content_type, reference_id, custom_title, custom_image, custom_url, display_order, is_active, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.ContentType, &i.ReferenceID, &i.CustomTitle, &i.CustomImage, &i.CustomURL,
		&i.DisplayOrder, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// List returns items in display order. The status filter accepts active and
// inactive; the category filter accepts a content type.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]Item, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	switch f.Status {
	case "active":
		where = append(where, "is_active")
	case "inactive":
		where = append(where, "NOT is_active")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("content_type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM homepage_items WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(`SELECT %s FROM homepage_items WHERE %s ORDER BY display_order, id LIMIT $%d OFFSET $%d`,
		selectColumns, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, i)
	}
	return out, total, rows.Err()
}

// Get fetches one item by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM homepage_items WHERE id = $1`, id)
	return scanItem(row)
}

// Insert creates an item. New items land at the end of the feed.
func (r *Repository) Insert(ctx context.Context, i Item) (Item, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO homepage_items (content_type, reference_id, custom_title, custom_image, custom_url, display_order, is_active)
		 VALUES ($1, $2, $3, $4, $5,
		         COALESCE((SELECT MAX(display_order) + 1 FROM homepage_items), 0), $6)
		 RETURNING `+selectColumns,
		i.ContentType, i.ReferenceID, i.CustomTitle, i.CustomImage, i.CustomURL, i.IsActive)
	return scanItem(row)
}

// Update rewrites an item, keeping its display order.
func (r *Repository) Update(ctx context.Context, id int64, i Item) (Item, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE homepage_items SET content_type = $2, reference_id = $3, custom_title = $4, custom_image = $5,
		        custom_url = $6, is_active = $7, updated_at = NOW()
		 WHERE id = $1 RETURNING `+selectColumns,
		id, i.ContentType, i.ReferenceID, i.CustomTitle, i.CustomImage, i.CustomURL, i.IsActive)
	return scanItem(row)
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM homepage_items WHERE id = $1`, id)
	return err
}

// ListActive returns every active item in display order, for feed resolution.
func (r *Repository) ListActive(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM homepage_items WHERE is_active ORDER BY display_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Reorder persists a new display order: position in ids becomes the order.
func (r *Repository) Reorder(ctx context.Context, ids []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for pos, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE homepage_items SET display_order = $2, updated_at = NOW() WHERE id = $1`, id, pos); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

var _ crud.Store[Item] = (*Repository)(nil)
