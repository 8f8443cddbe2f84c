package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// Repository persists posts in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the post repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, title, slug, excerpt, body, cover_url, tags, is_published, published_at, created_at, updated_at`

var sortColumns = map[string]string{
	"title":       "title",
	"publishedAt": "published_at",
	"createdAt":   "created_at",
}

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.CoverURL, &p.Tags,
		&p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns posts matching the filters plus the unpaginated total. Tag
// filtering requires every requested tag to be present.
func (r *Repository) List(ctx context.Context, f crud.Filters) ([]Post, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d)", len(args), len(args)))
	}
	switch f.Status {
	case "published":
		where = append(where, "is_published")
	case "draft":
		where = append(where, "NOT is_published")
	}
	if len(f.Tags) > 0 {
		args = append(args, f.Tags)
		where = append(where, fmt.Sprintf("tags @> $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := sortColumns[f.SortBy]
	if order == "" {
		order = "created_at"
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE %s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		selectColumns, cond, order, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Get fetches one post by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

// Insert creates a post and returns the stored row.
func (r *Repository) Insert(ctx context.Context, p Post) (Post, error) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, slug, excerpt, body, cover_url, tags, is_published, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+selectColumns,
		p.Title, p.Slug, p.Excerpt, p.Body, p.CoverURL, p.Tags, p.IsPublished, p.PublishedAt)
	return scanPost(row)
}

// Update rewrites a post and returns the stored row.
func (r *Repository) Update(ctx context.Context, id int64, p Post) (Post, error) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE posts SET title = $2, slug = $3, excerpt = $4, body = $5, cover_url = $6, tags = $7,
		        is_published = $8, published_at = $9, updated_at = NOW()
		 WHERE id = $1 RETURNING `+selectColumns,
		id, p.Title, p.Slug, p.Excerpt, p.Body, p.CoverURL, p.Tags, p.IsPublished, p.PublishedAt)
	return scanPost(row)
}

// Delete removes a post.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

// FindByIDs fetches posts for homepage reference resolution.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Post, error) {
	if len(ids) == 0 {
		return map[int64]Post{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM posts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Post, len(ids))
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

var _ crud.Store[Post] = (*Repository)(nil)
