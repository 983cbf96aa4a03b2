package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/config"
	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/utils"
)

// TempUserHandler handles guest session routes
type TempUserHandler struct {
	Store storage.Store
	Cfg   *config.Config
}

type tempUserResponse struct {
	TempID    string    `json:"tempId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create handles POST /api/temp-users. Idempotent re-entry: presenting a
// still-live tempId (body field or existing guest cookie) returns that
// identity with 200; otherwise a fresh session is minted with 201.
// @Summary Create or resume a guest session
// @Tags TempUsers
// @Accept json
// @Produce json
// @Success 200 {object} utils.Envelope
// @Success 201 {object} utils.Envelope
// @Router /temp-users [post]
func (h *TempUserHandler) Create(c *fiber.Ctx) error {
	var in struct {
		ExistingTempID string `json:"existingTempId"`
	}
	// Body is optional for this route.
	_ = c.BodyParser(&in)

	existing := in.ExistingTempID
	if existing == "" {
		if cookie := c.Cookies(h.Cfg.CookieName); cookie != "" {
			if p, err := services.ParseToken([]byte(h.Cfg.JWTSecret), cookie); err == nil && p.IsGuest() {
				existing = p.TempID
			}
		}
	}

	tu, created, err := services.GetOrCreateGuest(c.Context(), h.Store, existing)
	if err != nil {
		return utils.FromError(c, err)
	}

	token, err := services.GenerateGuestToken([]byte(h.Cfg.JWTSecret), tu.TempID, h.Cfg.GuestTTL)
	if err != nil {
		return utils.FromError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    token,
		Expires:  tu.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return utils.SuccessResponse(c, status, tempUserResponse{
		TempID:    tu.TempID,
		CreatedAt: tu.CreatedAt,
		ExpiresAt: tu.ExpiresAt,
	})
}
