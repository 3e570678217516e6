package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sharpPicks/business/retrieval"
	"sharpPicks/domain"
	"sharpPicks/pkg/logger"
	"sharpPicks/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PicksService interface {
	GetPicks(ctx context.Context, userID string, category domain.Category, runDate string) (*retrieval.Selection, error)
}

type PicksHandler struct {
	picksService PicksService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewPicksHandler(picksService PicksService, timeout time.Duration) *PicksHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PicksHandler{
		picksService: picksService,
		validator:    validator.New(),
		timeout:      timeout,
	}
}

type PicksRequest struct {
	UserID   string `query:"userId" validate:"required"`
	Category string `query:"category" validate:"required,oneof=team player_prop"`
	Date     string `query:"date" validate:"required,datetime=2006-01-02"`
}

type PickResponse struct {
	ID         string           `json:"id"`
	Sport      string           `json:"sport"`
	Subject    string           `json:"subject"`
	Selection  string           `json:"selection"`
	Odds       int              `json:"odds"`
	Confidence int              `json:"confidence"`
	RiskLevel  domain.RiskLevel `json:"risk_level"`
	Reasoning  string           `json:"reasoning"`
}

func toPickResponses(picks []domain.Pick) []PickResponse {
	out := make([]PickResponse, 0, len(picks))
	for _, p := range picks {
		out = append(out, PickResponse{
			ID:         p.ID,
			Sport:      p.Sport,
			Subject:    p.Subject,
			Selection:  p.Selection,
			Odds:       p.Odds,
			Confidence: p.Confidence,
			RiskLevel:  p.RiskLevel,
			Reasoning:  p.Reasoning,
		})
	}
	return out
}

// GET /api/v1/picks?userId=u1&category=team&date=2025-09-23
// Responds with a bare JSON array of picks.
func (h *PicksHandler) GetPicks(c echo.Context) error {
	start := time.Now()

	var req PicksRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind picks request", "error", err)
		metrics.PicksRequests.WithLabelValues("unknown", "bad_request").Inc()
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid query parameters"})
	}

	if err := h.validator.Struct(&req); err != nil {
		metrics.PicksRequests.WithLabelValues("unknown", "bad_request").Inc()
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	category := domain.Category(req.Category)
	defer func() {
		metrics.PicksRequestLatency.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sel, err := h.picksService.GetPicks(ctx, req.UserID, category, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPoolNotFound):
			metrics.PicksRequests.WithLabelValues(string(category), "not_generated").Inc()
			return c.JSON(http.StatusNotFound, ResponseError{Message: "picks have not been generated for this date yet"})
		case errors.Is(err, domain.ErrInvalidCategory), errors.Is(err, domain.ErrInvalidDate):
			metrics.PicksRequests.WithLabelValues(string(category), "bad_request").Inc()
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get picks", "user_id", req.UserID, "category", category, "date", req.Date, "error", err)
		metrics.PicksRequests.WithLabelValues(string(category), "error").Inc()
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load picks"})
	}

	outcome := "ok"
	if sel.Fallback {
		outcome = "fallback"
	}
	metrics.PicksRequests.WithLabelValues(string(category), outcome).Inc()

	return c.JSON(http.StatusOK, toPickResponses(sel.Picks))
}
