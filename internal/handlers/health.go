package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/config"
	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/storage"
)

// HealthHandler handles the liveness endpoint
type HealthHandler struct {
	Store storage.Store
	Cfg   *config.Config
}

// Check handles GET /health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.Store)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
