package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/inference"
	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/utils"
)

// ReportHandler handles report generation routes
type ReportHandler struct {
	Store storage.Store
	AI    *inference.Client
}

type reportRequest struct {
	TimeRange struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"timeRange"`
}

// Generate handles POST /api/reports/:goalId
// @Summary Generate an AI progress report for a goal
// @Description Calls the external inference endpoint synchronously; failures are surfaced without retry
// @Tags Reports
// @Accept json
// @Produce json
// @Param goalId path string true "Goal id"
// @Param body body reportRequest true "Report time range"
// @Success 200 {object} utils.Envelope
// @Failure 502 {object} utils.Envelope
// @Router /reports/{goalId} [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	var req reportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}
	if req.TimeRange.StartDate == "" || req.TimeRange.EndDate == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "timeRange.startDate and timeRange.endDate are required", "")
	}

	start, err := parseDate(req.TimeRange.StartDate)
	if err != nil {
		return utils.FromError(c, err)
	}
	end, err := parseDate(req.TimeRange.EndDate)
	if err != nil {
		return utils.FromError(c, err)
	}

	report, err := services.GenerateReport(c.Context(), h.Store, h.AI, principal, c.Params("goalId"), models.DateRange{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, report)
}
