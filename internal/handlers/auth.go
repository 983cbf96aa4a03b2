package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/config"
	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/utils"
)

// AuthHandler handles registration, login and session routes
type AuthHandler struct {
	Store storage.Store
	Cfg   *config.Config
}

type sessionResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Register handles POST /api/auth/register
// @Summary Register a new account
// @Description Create a registered account, optionally linking a prior guest session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration payload"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}

	user, err := services.Register(c.Context(), h.Store, in)
	if err != nil {
		return utils.FromError(c, err)
	}

	token, err := services.GenerateRegisteredToken([]byte(h.Cfg.JWTSecret), user.ID.Hex(), h.Cfg.RegisteredTTL)
	if err != nil {
		return utils.FromError(c, err)
	}
	h.setAuthCookie(c, token, h.Cfg.RegisteredTTL)

	return utils.SuccessResponse(c, fiber.StatusCreated, sessionResponse{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	})
}

// Login handles POST /api/auth/login
// @Summary Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Envelope
// @Failure 401 {object} utils.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid request body", "")
	}

	user, err := services.Authenticate(c.Context(), h.Store, in.Email, in.Password)
	if err != nil {
		return utils.FromError(c, err)
	}

	token, err := services.GenerateRegisteredToken([]byte(h.Cfg.JWTSecret), user.ID.Hex(), h.Cfg.RegisteredTTL)
	if err != nil {
		return utils.FromError(c, err)
	}
	h.setAuthCookie(c, token, h.Cfg.RegisteredTTL)

	return utils.SuccessResponse(c, fiber.StatusOK, sessionResponse{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Clear the auth cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{})
}

// Me handles GET /api/auth/me
// @Summary Return the authenticated principal
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Envelope
// @Failure 401 {object} utils.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	if principal.IsGuest() {
		return utils.SuccessResponse(c, fiber.StatusOK, principal)
	}
	user, err := h.Store.GetUserByID(c.Context(), principal.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "account no longer exists", "")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
