package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sharpPicks/business/generator"
	"sharpPicks/domain"
	"sharpPicks/pkg/logger"
	"sharpPicks/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type GenerationService interface {
	Run(ctx context.Context, req generator.RunRequest) (*generator.RunResult, error)
	RunAll(ctx context.Context, req generator.RunRequest, categories []domain.Category) ([]*generator.RunResult, error)
}

type GenerationRunLister interface {
	ListRuns(ctx context.Context, runDate string, limit int) ([]domain.GenerationRun, error)
}

type GenerationAdminHandler struct {
	generation GenerationService
	runs       GenerationRunLister
	validate   *validator.Validate
	timeout    time.Duration
}

// NewGenerationAdminHandler takes the run timeout explicitly since a run
// covers several LLM attempts.
func NewGenerationAdminHandler(generation GenerationService, runs GenerationRunLister, timeout time.Duration) *GenerationAdminHandler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &GenerationAdminHandler{
		generation: generation,
		runs:       runs,
		validate:   validator.New(),
		timeout:    timeout,
	}
}

type TriggerGenerationRequest struct {
	Date           string         `json:"date" validate:"required,datetime=2006-01-02"`
	Category       string         `json:"category" validate:"required,oneof=team player_prop all"`
	TargetPoolSize int            `json:"targetPoolSize" validate:"gte=0"`
	PicksOverride  int            `json:"picksOverride" validate:"gte=0"`
	Events         []domain.Event `json:"events"`
}

type generationSummary struct {
	Run          domain.GenerationRun  `json:"run"`
	Distribution []generator.RiskShare `json:"distribution"`
}

// POST /api/v1/admin/generation
func (h *GenerationAdminHandler) Trigger(c echo.Context) error {
	var req TriggerGenerationRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind generation request", "error", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	runReq := generator.RunRequest{
		Date:           req.Date,
		TargetPoolSize: req.TargetPoolSize,
		PicksOverride:  req.PicksOverride,
		Events:         req.Events,
	}

	var (
		results []*generator.RunResult
		err     error
	)
	if req.Category == "all" {
		results, err = h.generation.RunAll(ctx, runReq, nil)
	} else {
		runReq.Category = domain.Category(req.Category)
		var res *generator.RunResult
		res, err = h.generation.Run(ctx, runReq)
		results = []*generator.RunResult{res}
	}

	summaries := make([]generationSummary, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		outcome := "ok"
		if res.Run.Status == domain.RunFailed {
			outcome = "failed"
		}
		metrics.GenerationTriggers.WithLabelValues(string(res.Run.Category), outcome).Inc()
		summaries = append(summaries, generationSummary{Run: res.Run, Distribution: res.Distribution})
	}

	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) || errors.Is(err, domain.ErrInvalidDate) {
			return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
		}
		logger.Error("Generation run failed", "date", req.Date, "category", req.Category, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": err.Error(),
			"runs":  summaries,
		})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(summaries))
}

// GET /api/v1/admin/generation/runs?date=2025-09-23
func (h *GenerationAdminHandler) ListRuns(c echo.Context) error {
	date := c.QueryParam("date")
	if date != "" {
		if _, err := domain.ParseRunDate(date); err != nil {
			return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	runs, err := h.runs.ListRuns(ctx, date, 100)
	if err != nil {
		logger.Error("Failed to list generation runs", "date", date, "error", err)
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}
