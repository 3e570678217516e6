package rest

import (
	"context"
	"net/http"
	"time"

	"sharpPicks/domain"
	"sharpPicks/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TierPolicyService interface {
	TierPolicies(ctx context.Context) ([]domain.TierPolicy, error)
	SetTierPolicy(ctx context.Context, policy domain.TierPolicy) error
}

type TierAdminHandler struct {
	policies TierPolicyService
	validate *validator.Validate
	timeout  time.Duration
}

func NewTierAdminHandler(policies TierPolicyService) *TierAdminHandler {
	return &TierAdminHandler{
		policies: policies,
		validate: validator.New(),
		timeout:  10 * time.Second,
	}
}

type UpsertTierPolicyRequest struct {
	Tier     string `json:"tier" validate:"required,oneof=free pro elite"`
	Category string `json:"category" validate:"required,oneof=team player_prop"`
	MaxPicks int    `json:"max_picks" validate:"required,gt=0"`
}

// GET /api/v1/admin/tiers
func (h *TierAdminHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policies, err := h.policies.TierPolicies(ctx)
	if err != nil {
		logger.Error("Failed to list tier policies", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policies))
}

// PUT /api/v1/admin/tiers
func (h *TierAdminHandler) Upsert(c echo.Context) error {
	var req UpsertTierPolicyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policy := domain.TierPolicy{
		Tier:     domain.Tier(req.Tier),
		Category: domain.Category(req.Category),
		MaxPicks: req.MaxPicks,
	}
	if err := h.policies.SetTierPolicy(ctx, policy); err != nil {
		logger.Error("Failed to upsert tier policy", "tier", req.Tier, "category", req.Category, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policy))
}
