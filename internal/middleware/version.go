package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CurrentAPIVersion is echoed on every response.
const CurrentAPIVersion = "1.0.0"

// Version parses the X-Api-Version request header, stores it in context
// and echoes the served version back to the client.
func Version() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", CurrentAPIVersion)

		// Support the short alias
		if version == "1.0" {
			version = CurrentAPIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", CurrentAPIVersion)

		return c.Next()
	}
}
