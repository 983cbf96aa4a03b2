package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/types"
)

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// SuccessResponse sends a standard success envelope
func SuccessResponse(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse sends a standard error envelope
func ErrorResponse(c *fiber.Ctx, status int, message, details string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   &ErrorBody{Message: message, Details: details},
	})
}

// FromError sends the envelope for a service error, mapping CustomError
// codes and hiding internals behind a generic message otherwise.
func FromError(c *fiber.Ctx, err error) error {
	if ce, ok := err.(*types.CustomError); ok {
		return ErrorResponse(c, ce.Code, ce.Message, ce.Details)
	}
	return ErrorResponse(c, fiber.StatusInternalServerError, "internal server error", "")
}
