package vip

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Module bundles the tier and benefit engines plus the grant service.
type Module struct {
	Tiers    *crud.Engine[Tier]
	Benefits *crud.Engine[Benefit]

	tierRepo    *TierRepository
	benefitRepo *BenefitRepository
	assignments *AssignmentRepository
	authz       *rbac.Resolver
	recorder    *audit.Recorder
	pages       cache.Invalidator
	logger      *slog.Logger
}

// NewModule wires the VIP stores into mutation engines.
func NewModule(pool *pgxpool.Pool, authz *rbac.Resolver, recorder *audit.Recorder, pages cache.Invalidator, logger *slog.Logger) *Module {
	tierRepo := NewTierRepository(pool)
	benefitRepo := NewBenefitRepository(pool)

	tierDesc := crud.Descriptor[Tier]{
		Module:       shared.ModuleVIP,
		Entity:       "vip tier",
		Sections:     []string{"vip"},
		Validate:     func(t Tier) error { return crud.ValidateStruct(t) },
		UniqueFields: map[string]string{"vip_tiers_level_key": "level"},
		Guard: func(ctx context.Context, id int64) (int, string, error) {
			n, err := tierRepo.CountBenefits(ctx, id)
			return n, "benefit grants", err
		},
	}
	benefitDesc := crud.Descriptor[Benefit]{
		Module:   shared.ModuleVIP,
		Entity:   "vip benefit",
		Sections: []string{"vip"},
		Validate: func(b Benefit) error { return crud.ValidateStruct(b) },
		Guard: func(ctx context.Context, id int64) (int, string, error) {
			n, err := benefitRepo.CountTiers(ctx, id)
			return n, "tiers", err
		},
	}

	return &Module{
		Tiers:       crud.NewEngine(tierDesc, tierRepo, authz, recorder, pages, logger),
		Benefits:    crud.NewEngine(benefitDesc, benefitRepo, authz, recorder, pages, logger),
		tierRepo:    tierRepo,
		benefitRepo: benefitRepo,
		assignments: NewAssignmentRepository(pool),
		authz:       authz,
		recorder:    recorder,
		pages:       pages,
		logger:      logger,
	}
}

// TierBenefits lists the benefit grants of one tier in display order.
func (m *Module) TierBenefits(ctx context.Context, actor *auth.Identity, tierID int64) ([]TierBenefit, error) {
	if actor == nil {
		return nil, shared.ErrUnauthorized
	}
	if !m.authz.HasPermission(ctx, actor, shared.ModuleVIP, shared.ActionView) {
		return nil, shared.ErrForbidden
	}
	if _, err := m.tierRepo.Get(ctx, tierID); err != nil {
		return nil, db.Classify(err)
	}
	return m.assignments.TierBenefits(ctx, tierID)
}

// SetTierBenefits replaces a tier's benefit grants wholesale.
func (m *Module) SetTierBenefits(ctx context.Context, actor *auth.Identity, tierID int64, input TierBenefitsInput) crud.Result[TierBenefitsInput] {
	if actor == nil {
		return crud.Fail[TierBenefitsInput](shared.ErrUnauthorized)
	}
	if !m.authz.HasPermission(ctx, actor, shared.ModuleVIP, shared.ActionEdit) {
		return crud.Fail[TierBenefitsInput](shared.ErrForbidden)
	}
	if err := crud.ValidateStruct(input); err != nil {
		return crud.Fail[TierBenefitsInput](fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
	}
	seen := make(map[int64]bool, len(input.Benefits))
	for _, g := range input.Benefits {
		if seen[g.BenefitID] {
			return crud.Fail[TierBenefitsInput](fmt.Errorf("%w: benefit %d listed twice", shared.ErrValidation, g.BenefitID))
		}
		seen[g.BenefitID] = true
	}
	if _, err := m.tierRepo.Get(ctx, tierID); err != nil {
		return crud.Fail[TierBenefitsInput](db.Classify(err))
	}
	if err := m.assignments.ReplaceTierBenefits(ctx, tierID, input.Benefits); err != nil {
		return crud.Fail[TierBenefitsInput](db.Classify(err))
	}
	if m.recorder != nil {
		m.recorder.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "vip tier.set_benefits",
			Entity:   "vip tier",
			EntityID: strconv.FormatInt(tierID, 10),
			Meta:     map[string]any{"after": input.Benefits},
			At:       time.Now(),
		})
	}
	if m.pages != nil {
		m.pages.Invalidate(ctx, "vip")
	}
	return crud.OK(input, "tier benefits updated")
}
