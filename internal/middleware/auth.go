package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/services"
	"github.com/focusapp/focus-server/internal/types"
)

// principalKey is the Locals key the auth middleware stores the Principal
// under.
const principalKey = "principal"

// RequireAuth validates the auth cookie and stores the resolved Principal
// in the request context. Both registered and guest tokens pass; ownership
// checks happen in the services.
func RequireAuth(secret []byte, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			// Fall back to a bearer header for non-browser clients.
			auth := c.Get(fiber.HeaderAuthorization)
			if len(auth) > 7 && auth[:7] == "Bearer " {
				token = auth[7:]
			}
		}
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "authentication required",
				Type:    types.ErrTypeUnauthorized,
			}
		}

		principal, err := services.ParseToken(secret, token)
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFromCtx extracts the Principal stored by RequireAuth.
func PrincipalFromCtx(c *fiber.Ctx) (types.Principal, error) {
	p, ok := c.Locals(principalKey).(types.Principal)
	if !ok {
		return types.Principal{}, types.NewUnauthorizedError("authentication required")
	}
	return p, nil
}
