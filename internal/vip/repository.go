package vip

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/crud"
)

// TierRepository persists VIP tiers.
type TierRepository struct {
	pool *pgxpool.Pool
}

// NewTierRepository constructs the tier repository.
func NewTierRepository(pool *pgxpool.Pool) *TierRepository {
	return &TierRepository{pool: pool}
}

// List returns tiers ordered by level.
func (r *TierRepository) List(ctx context.Context, f crud.Filters) ([]Tier, int, error) {
	where := "TRUE"
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = fmt.Sprintf("name ILIKE $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vip_tiers WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(
		`SELECT id, name, level, created_at, updated_at FROM vip_tiers WHERE %s ORDER BY level LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Tier
	for rows.Next() {
		var t Tier
		if err := rows.Scan(&t.ID, &t.Name, &t.Level, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Get fetches one tier by ID.
func (r *TierRepository) Get(ctx context.Context, id int64) (Tier, error) {
	var t Tier
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, level, created_at, updated_at FROM vip_tiers WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Level, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Insert creates a tier.
func (r *TierRepository) Insert(ctx context.Context, t Tier) (Tier, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vip_tiers (name, level) VALUES ($1, $2) RETURNING id, name, level, created_at, updated_at`,
		t.Name, t.Level,
	).Scan(&t.ID, &t.Name, &t.Level, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Update rewrites a tier.
func (r *TierRepository) Update(ctx context.Context, id int64, t Tier) (Tier, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE vip_tiers SET name = $2, level = $3, updated_at = NOW() WHERE id = $1
		 RETURNING id, name, level, created_at, updated_at`,
		id, t.Name, t.Level,
	).Scan(&t.ID, &t.Name, &t.Level, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Delete removes a tier.
func (r *TierRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM vip_tiers WHERE id = $1`, id)
	return err
}

// CountBenefits reports how many benefit grants the tier holds.
func (r *TierRepository) CountBenefits(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vip_tier_benefits WHERE tier_id = $1`, id).Scan(&n)
	return n, err
}

var _ crud.Store[Tier] = (*TierRepository)(nil)

// BenefitRepository persists VIP benefits.
type BenefitRepository struct {
	pool *pgxpool.Pool
}

// NewBenefitRepository constructs the benefit repository.
func NewBenefitRepository(pool *pgxpool.Pool) *BenefitRepository {
	return &BenefitRepository{pool: pool}
}

// List returns benefits matching the filters.
func (r *BenefitRepository) List(ctx context.Context, f crud.Filters) ([]Benefit, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vip_benefits WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PerPage, f.Offset())
	query := fmt.Sprintf(
		`SELECT id, title, description, icon, created_at, updated_at FROM vip_benefits WHERE %s ORDER BY title LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Benefit
	for rows.Next() {
		var b Benefit
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Icon, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// Get fetches one benefit by ID.
func (r *BenefitRepository) Get(ctx context.Context, id int64) (Benefit, error) {
	var b Benefit
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, icon, created_at, updated_at FROM vip_benefits WHERE id = $1`, id,
	).Scan(&b.ID, &b.Title, &b.Description, &b.Icon, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Insert creates a benefit.
func (r *BenefitRepository) Insert(ctx context.Context, b Benefit) (Benefit, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vip_benefits (title, description, icon) VALUES ($1, $2, $3)
		 RETURNING id, title, description, icon, created_at, updated_at`,
		b.Title, b.Description, b.Icon,
	).Scan(&b.ID, &b.Title, &b.Description, &b.Icon, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Update rewrites a benefit.
func (r *BenefitRepository) Update(ctx context.Context, id int64, b Benefit) (Benefit, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE vip_benefits SET title = $2, description = $3, icon = $4, updated_at = NOW() WHERE id = $1
		 RETURNING id, title, description, icon, created_at, updated_at`,
		id, b.Title, b.Description, b.Icon,
	).Scan(&b.ID, &b.Title, &b.Description, &b.Icon, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Delete removes a benefit.
func (r *BenefitRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM vip_benefits WHERE id = $1`, id)
	return err
}

// CountTiers reports how many tiers grant the benefit.
func (r *BenefitRepository) CountTiers(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vip_tier_benefits WHERE benefit_id = $1`, id).Scan(&n)
	return n, err
}

var _ crud.Store[Benefit] = (*BenefitRepository)(nil)

// AssignmentRepository manages the tier to benefit grant table.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository constructs the assignment repository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// TierBenefits returns the grants for one tier ordered for display.
func (r *AssignmentRepository) TierBenefits(ctx context.Context, tierID int64) ([]TierBenefit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tb.benefit_id, b.title, b.icon, tb.display_order, tb.note
		 FROM vip_tier_benefits tb
		 JOIN vip_benefits b ON b.id = tb.benefit_id
		 WHERE tb.tier_id = $1
		 ORDER BY tb.display_order, b.title`, tierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TierBenefit{}
	for rows.Next() {
		var tb TierBenefit
		if err := rows.Scan(&tb.BenefitID, &tb.Title, &tb.Icon, &tb.DisplayOrder, &tb.Note); err != nil {
			return nil, err
		}
		out = append(out, tb)
	}
	return out, rows.Err()
}

// ReplaceTierBenefits atomically replaces the grant set of a tier.
func (r *AssignmentRepository) ReplaceTierBenefits(ctx context.Context, tierID int64, grants []TierBenefit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM vip_tier_benefits WHERE tier_id = $1`, tierID); err != nil {
		return err
	}
	for _, g := range grants {
		_, err := tx.Exec(ctx,
			`INSERT INTO vip_tier_benefits (tier_id, benefit_id, display_order, note) VALUES ($1, $2, $3, $4)`,
			tierID, g.BenefitID, g.DisplayOrder, g.Note)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
