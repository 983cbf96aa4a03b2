package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/focusapp/focus-server/internal/middleware"
	"github.com/focusapp/focus-server/internal/types"
)

// acceptedDateLayouts are the formats clients send dates in. RFC3339 covers
// the SPA's serialized Date objects; the bare layout covers date pickers.
var acceptedDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate parses a client-supplied date string. The bare Y-M-D layout is
// interpreted in the server's local timezone so it lands on the intended
// calendar day.
func parseDate(value string) (time.Time, error) {
	for _, layout := range acceptedDateLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, types.NewValidationError("invalid date: " + value)
}

// endOfDay extends a parsed range end to the last instant of its local
// calendar day. Bare Y-M-D dates parse to midnight, which would otherwise
// exclude everything logged later on the range's final day.
func endOfDay(t time.Time) time.Time {
	l := t.In(time.Local)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)
}

// requirePrincipal extracts the authenticated principal or fails the
// request.
func requirePrincipal(c *fiber.Ctx) (types.Principal, error) {
	return middleware.PrincipalFromCtx(c)
}
