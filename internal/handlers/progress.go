package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/utils"
)

// ProgressHandler handles progress record and summary routes
type ProgressHandler struct {
	Store storage.Store
}

type addRecordRequest struct {
	GoalID   string   `json:"goalId"`
	Date     string   `json:"date"`
	Activity string   `json:"activity"`
	Duration int      `json:"duration"`
	Notes    string   `json:"notes"`
	Images   []string `json:"images"`
}

// AddRecord handles POST /api/progress
// @Summary Log a progress record
// @Tags Progress
// @Accept json
// @Produce json
// @Param body body addRecordRequest true "Record payload"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /progress [post]
func (h *ProgressHandler) AddRecord(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	var req addRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}

	in := services.AddRecordInput{
		GoalID:   req.GoalID,
		Activity: req.Activity,
		Duration: req.Duration,
		Notes:    req.Notes,
		Images:   req.Images,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return utils.FromError(c, err)
		}
		in.Date = &date
	}

	doc, err := services.AddProgressRecord(c.Context(), h.Store, principal, in)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, doc)
}

// List handles GET /api/progress/:goalId
// @Summary List a goal's progress documents
// @Tags Progress
// @Produce json
// @Param goalId path string true "Goal id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /progress/{goalId} [get]
func (h *ProgressHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	docs, err := services.ListProgress(c.Context(), h.Store, principal, c.Params("goalId"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, docs)
}

// Summary handles GET /api/progress/:goalId/summary?startDate=&endDate=
// @Summary Aggregate progress over a date range
// @Description Defaults to the trailing seven days when the range is omitted
// @Tags Progress
// @Produce json
// @Param goalId path string true "Goal id"
// @Param startDate query string false "Range start (RFC3339 or Y-M-D)"
// @Param endDate query string false "Range end (RFC3339 or Y-M-D)"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /progress/{goalId}/summary [get]
func (h *ProgressHandler) Summary(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	goal, err := services.GetOwnedGoal(c.Context(), h.Store, principal, c.Params("goalId"))
	if err != nil {
		return utils.FromError(c, err)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -7)
	if v := c.Query("startDate"); v != "" {
		if start, err = parseDate(v); err != nil {
			return utils.FromError(c, err)
		}
	}
	if v := c.Query("endDate"); v != "" {
		if end, err = parseDate(v); err != nil {
			return utils.FromError(c, err)
		}
	}
	end = endOfDay(end)

	docs, err := h.Store.ListProgressInRange(c.Context(), goal.ID.Hex(), start, end)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, services.Summarize(goal, docs))
}

// DeleteRecord handles DELETE /api/progress/:id/records/:recordId
// @Summary Delete one record from a progress document
// @Tags Progress
// @Produce json
// @Param id path string true "Progress id"
// @Param recordId path string true "Record id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /progress/{id}/records/{recordId} [delete]
func (h *ProgressHandler) DeleteRecord(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	doc, err := services.DeleteProgressRecord(c.Context(), h.Store, principal, c.Params("id"), c.Params("recordId"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, doc)
}
