package vip

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/crud"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
)

// MountRoutes registers the VIP routes: tier CRUD plus per-tier benefit
// grants, and benefit CRUD.
func (m *Module) MountRoutes(r chi.Router) {
	tiers := &crud.RestHandler[Tier]{Logger: m.logger, Engine: m.Tiers}
	benefits := &crud.RestHandler[Benefit]{Logger: m.logger, Engine: m.Benefits}

	r.Route("/tiers", func(r chi.Router) {
		tiers.MountRoutes(r)
		r.Get("/{id}/benefits", m.listTierBenefits)
		r.Put("/{id}/benefits", m.setTierBenefits)
	})
	r.Route("/benefits", func(r chi.Router) {
		benefits.MountRoutes(r)
	})
}

func (m *Module) listTierBenefits(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || tierID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid tier ID")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	grants, err := m.TierBenefits(r.Context(), actor, tierID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": grants})
}

func (m *Module) setTierBenefits(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || tierID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid tier ID")
		return
	}
	var input TierBenefitsInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := auth.IdentityFromContext(r.Context())
	res := m.SetTierBenefits(r.Context(), actor, tierID, input)
	httpx.JSON(w, res.HTTPStatus(), res)
}
