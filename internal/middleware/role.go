package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces possession of a
// single capability marker. Because tokens carry cumulative markers
// (an admin token also holds "moderador" and "user"), gating an
// endpoint on one marker automatically admits every role at or above
// that tier. It assumes JWTAuth has stored the marker set in the
// context under "roles".
func RequireRole(marker string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("roles")
			markers, ok := v.(map[string]bool)
			if !ok || !markers[marker] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
