package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject and capability markers into
// the request context. The provided secret must match the one used
// when issuing tokens. Handlers behind this middleware can read the
// authenticated identity via c.Get("user_id") and c.Get("roles").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// The key callback also pins the signing method: a token
			// signed with anything but HMAC is rejected outright.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set("user_id", claims["sub"])
			c.Set("roles", markerSet(claims["roles"]))
			return next(c)
		}
	}
}

// markerSet normalizes the "roles" claim (a JSON array) into a lookup
// map. Tokens without the claim produce an empty set, which fails
// every role gate downstream.
func markerSet(v interface{}) map[string]bool {
	out := map[string]bool{}
	arr, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, m := range arr {
		if s, ok := m.(string); ok && s != "" {
			out[s] = true
		}
	}
	return out
}
