package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
	"github.com/focusapp/focus-server/internal/utils"
)

// GoalHandler handles goal CRUD and daily-card routes
type GoalHandler struct {
	Store storage.Store
}

// List handles GET /api/goals/:userId
// @Summary List the goals owned by an account
// @Description The path userId must belong to the authenticated principal
// @Tags Goals
// @Produce json
// @Param userId path string true "Owner key (account id or temp token)"
// @Success 200 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Router /goals/{userId} [get]
func (h *GoalHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	requested := c.Params("userId")
	ownerKeys, err := services.OwnerKeys(c.Context(), h.Store, principal)
	if err != nil {
		return utils.FromError(c, err)
	}
	if !types.OwnsKey(ownerKeys, requested) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "cannot read another account's goals", "")
	}

	goals, err := services.ListGoals(c.Context(), h.Store, principal)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, goals)
}

// Get handles GET /api/goals/detail/:id
// @Summary Fetch one goal
// @Tags Goals
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /goals/detail/{id} [get]
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	goal, err := services.GetOwnedGoal(c.Context(), h.Store, principal, c.Params("id"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, goal)
}

// Create handles POST /api/goals
// @Summary Create a goal
// @Description Applies the per-account goal quota before creation
// @Tags Goals
// @Accept json
// @Produce json
// @Param body body services.CreateGoalInput true "Goal payload"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /goals [post]
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	var in services.CreateGoalInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}
	goal, err := services.CreateGoal(c.Context(), h.Store, principal, in)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, goal)
}

// Update handles PUT /api/goals/:id
// @Summary Partially update a goal
// @Description Only fields present in the request are overwritten
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	var in services.UpdateGoalInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}
	goal, err := services.UpdateGoal(c.Context(), h.Store, principal, c.Params("id"), in)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, goal)
}

// SetStatus handles PUT /api/goals/:id/status
// @Summary Transition a goal's status
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /goals/{id}/status [put]
func (h *GoalHandler) SetStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}
	goal, err := services.SetGoalStatus(c.Context(), h.Store, principal, c.Params("id"), in.Status)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, goal)
}

// Delete handles DELETE /api/goals/:id
// @Summary Delete a goal and its progress documents
// @Tags Goals
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	if err := services.DeleteGoal(c.Context(), h.Store, principal, c.Params("id")); err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{})
}

// dailyCardRequest is the wire form of a daily-card patch; the date arrives
// as a string in either RFC3339 or bare Y-M-D form.
type dailyCardRequest struct {
	Date            string                   `json:"date"`
	DailyTask       *string                  `json:"dailyTask"`
	DailyReward     *string                  `json:"dailyReward"`
	Completed       *services.CompletedPatch `json:"completed"`
	TaskCompletions map[string]bool          `json:"taskCompletions"`
	Records         []models.CardRecord      `json:"records"`
	Links           []string                 `json:"links"`
}

// UpsertDailyCard handles POST /api/goals/:id/daily-card
// @Summary Create or update the daily card for a calendar date
// @Description Card identity is the local calendar day; the whole parent goal is returned
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path string true "Goal id"
// @Param body body dailyCardRequest true "Daily card patch"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /goals/{id}/daily-card [post]
func (h *GoalHandler) UpsertDailyCard(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	var req dailyCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}

	patch := services.DailyCardPatch{
		DailyTask:       req.DailyTask,
		DailyReward:     req.DailyReward,
		Completed:       req.Completed,
		TaskCompletions: req.TaskCompletions,
		Records:         req.Records,
		Links:           req.Links,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return utils.FromError(c, err)
		}
		patch.Date = &date
	}

	goal, err := services.UpsertDailyCard(c.Context(), h.Store, principal, c.Params("id"), patch)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, goal)
}
