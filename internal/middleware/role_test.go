package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvidal/stockman/internal/auth"
	"github.com/matheusvidal/stockman/internal/model"
)

const testSecret = "test-secret"

func testUser(role auth.Role) *model.User {
	return &model.User{ID: 1, Name: "alice", Email: "a@x.com", Role: string(role)}
}

func issueToken(t *testing.T, role auth.Role) string {
	t.Helper()
	cl, err := auth.BuildClaims(testUser(role))
	require.NoError(t, err)
	access, err := auth.NewAccessToken(testSecret, cl, 5)
	require.NoError(t, err)
	return access.Token
}

func doRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func protectedEcho(marker string) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, JWTAuth(testSecret), RequireRole(marker))
	return e
}

func TestRequireRoleCumulativeClaims(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		role   auth.Role
		want   int
	}{
		{name: "admin passes admin gate", marker: "admin", role: auth.RoleAdmin, want: http.StatusOK},
		{name: "admin passes moderador gate", marker: "moderador", role: auth.RoleAdmin, want: http.StatusOK},
		{name: "admin passes user gate", marker: "user", role: auth.RoleAdmin, want: http.StatusOK},
		{name: "moderador passes moderador gate", marker: "moderador", role: auth.RoleModerador, want: http.StatusOK},
		{name: "moderador passes user gate", marker: "user", role: auth.RoleModerador, want: http.StatusOK},
		{name: "moderador blocked at admin gate", marker: "admin", role: auth.RoleModerador, want: http.StatusForbidden},
		{name: "user passes user gate", marker: "user", role: auth.RoleUser, want: http.StatusOK},
		{name: "user blocked at moderador gate", marker: "moderador", role: auth.RoleUser, want: http.StatusForbidden},
		{name: "user blocked at admin gate", marker: "admin", role: auth.RoleUser, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(protectedEcho(tt.marker), issueToken(t, tt.role))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec := doRequest(protectedEcho("user"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	rec := doRequest(protectedEcho("user"), "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	cl, err := auth.BuildClaims(testUser(auth.RoleAdmin))
	require.NoError(t, err)
	access, err := auth.NewAccessToken("other-secret", cl, 5)
	require.NoError(t, err)

	rec := doRequest(protectedEcho("user"), access.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
