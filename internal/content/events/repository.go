package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists events in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, title, slug, description, venue, image_url, starts_at, ends_at, is_published, published_at, created_at, updated_at`

var sortColumns = map[string]string{
	"title":     "title",
	"startsAt":  "starts_at",
	"createdAt": "created_at",
}

func scanEvent(row interface{ Scan(...any) error }) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Venue, &e.ImageURL,
		&e.StartsAt, &e.EndsAt, &e.IsPublished, &e.PublishedAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// List returns events matching the filters plus the unpaginated total. The
// status filter accepts published, draft, upcoming and past.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]Event, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR venue ILIKE $%d)", len(args), len(args)))
	}
	switch f.Status {
	case "published":
		where = append(where, "is_published")
	case "draft":
		where = append(where, "NOT is_published")
	case "upcoming":
		args = append(args, time.Now())
		where = append(where, fmt.Sprintf("ends_at >= $%d", len(args)))
	case "past":
		args = append(args, time.Now())
		where = append(where, fmt.Sprintf("ends_at < $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM events WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := sortColumns[f.SortBy]
	if order == "" {
		order = "starts_at"
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		selectColumns, cond, order, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// Get fetches one event by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

// Insert creates an event and returns the stored row.
func (r *Repository) Insert(ctx context.Context, e Event) (Event, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO events (title, slug, description, venue, image_url, starts_at, ends_at, is_published, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+selectColumns,
		e.Title, e.Slug, e.Description, e.Venue, e.ImageURL, e.StartsAt, e.EndsAt, e.IsPublished, e.PublishedAt)
	return scanEvent(row)
}

// Update rewrites an event and returns the stored row.
func (r *Repository) Update(ctx context.Context, id int64, e Event) (Event, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE events SET title = $2, slug = $3, description = $4, venue = $5, image_url = $6,
		        starts_at = $7, ends_at = $8, is_published = $9, published_at = $10, updated_at = NOW()
		 WHERE id = $1 RETURNING `+selectColumns,
		id, e.Title, e.Slug, e.Description, e.Venue, e.ImageURL, e.StartsAt, e.EndsAt, e.IsPublished, e.PublishedAt)
	return scanEvent(row)
}

// Delete removes an event.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// FindByIDs fetches events for homepage reference resolution.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Event, error) {
	if len(ids) == 0 {
		return map[int64]Event{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM events WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Event, len(ids))
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out[e.ID] = e
	}
	return out, rows.Err()
}

var _ crud.Store[Event] = (*Repository)(nil)
