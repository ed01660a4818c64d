package handler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/settlement/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SettlementRunner runs the daily settlement batch for a target day
type SettlementRunner interface {
	RunDailySettlement(ctx context.Context, targetDate time.Time) (int, error)
}

// SettlementHandler handles settlement batch API endpoints
type SettlementHandler struct {
	BaseHandler
	runner   SettlementRunner
	location *time.Location
	logger   *zap.Logger
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(runner SettlementRunner, location *time.Location, logger *zap.Logger) *SettlementHandler {
	if location == nil {
		location = time.UTC
	}
	return &SettlementHandler{
		runner:   runner,
		location: location,
		logger:   logger,
	}
}

// RegisterRoutes registers settlement routes
func (h *SettlementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settlements := rg.Group("/settlements")
	{
		settlements.POST("/run", h.Run)
	}
}

// RunSettlementRequest represents a manual settlement run request.
// TargetDate is optional and defaults to yesterday in the configured timezone.
type RunSettlementRequest struct {
	TargetDate string `json:"target_date"`
}

// RunSettlementResponse represents the result of a settlement run
type RunSettlementResponse struct {
	TargetDate string `json:"target_date"`
	Processed  int    `json:"processed"`
}

// Run triggers the settlement batch for a single day and waits for the result
func (h *SettlementHandler) Run(c *gin.Context) {
	var req RunSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body")
		return
	}

	targetDate := time.Now().In(h.location).AddDate(0, 0, -1)
	if req.TargetDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.TargetDate, h.location)
		if err != nil {
			h.ValidationError(c, []dto.ValidationDetail{
				{Field: "target_date", Message: "must be in YYYY-MM-DD format"},
			})
			return
		}
		targetDate = parsed
	}

	processed, err := h.runner.RunDailySettlement(c.Request.Context(), targetDate)
	if err != nil {
		h.logger.Error("Manual settlement run failed",
			zap.String("target_date", targetDate.Format("2006-01-02")),
			zap.Error(err),
		)
		h.InternalError(c, "Settlement run failed")
		return
	}

	h.Success(c, RunSettlementResponse{
		TargetDate: targetDate.Format("2006-01-02"),
		Processed:  processed,
	})
}
