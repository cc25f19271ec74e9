package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matheusvidal/stockman/internal/auth"
)

// LastAccessRecorder is the slice of the user repository the login
// endpoint needs besides the auth core.
type LastAccessRecorder interface {
	TouchLastAccess(ctx context.Context, userID int64) error
}

// AuthHandler exposes the login endpoint over the auth core.
type AuthHandler struct {
	Auth  *auth.Service
	Users LastAccessRecorder
}

func NewAuthHandler(a *auth.Service, u LastAccessRecorder) *AuthHandler {
	return &AuthHandler{Auth: a, Users: u}
}

type loginReq struct {
	Login    string `json:"login"` // email or username
	Password string `json:"password"`
}

type loginResp struct {
	UserID       int64     `json:"userId"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
}

// Login authenticates an identifier/password pair and returns the
// session tokens. "account not found" and "wrong password" are kept
// as distinct error kinds internally (they are logged differently)
// but collapse into one 401 body here so responses do not reveal
// which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountNotFound), errors.Is(err, auth.ErrInvalidCredentials):
			log.Printf("login rejected for %q: %v", req.Login, err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrDomain):
			log.Printf("login aborted, corrupt account data for %q: %v", req.Login, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		case errors.Is(err, auth.ErrConfig):
			log.Printf("login aborted, configuration error: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		default: // auth.ErrStore and anything unexpected
			log.Printf("login failed for %q: %v", req.Login, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	// Best effort; a failed timestamp update must not undo the login.
	if err := h.Users.TouchLastAccess(ctx, sess.UserID); err != nil {
		log.Printf("touch last access for user %d: %v", sess.UserID, err)
	}

	return c.JSON(http.StatusOK, loginResp{
		UserID:       sess.UserID,
		Token:        sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Expiration:   sess.ExpiresAt,
		Role:         string(sess.Role),
		Name:         sess.Name,
	})
}
