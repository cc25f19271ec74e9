package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvidal/stockman/internal/auth"
	"github.com/matheusvidal/stockman/internal/model"
)

// stubStore serves one fixed account to the auth core.
type stubStore struct {
	user *model.User
	salt string

	persistedToken string
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		cp := *s.user
		return &cp, nil
	}
	return nil, nil
}

func (s *stubStore) FindByName(_ context.Context, name string) (*model.User, error) {
	if s.user != nil && s.user.Name == name {
		cp := *s.user
		return &cp, nil
	}
	return nil, nil
}

func (s *stubStore) FindSalt(_ context.Context, _ int64) (string, error) {
	return s.salt, nil
}

func (s *stubStore) UpdateRefreshToken(_ context.Context, _ int64, token string, _ time.Time) error {
	s.persistedToken = token
	return nil
}

type stubRecorder struct{ touched []int64 }

func (r *stubRecorder) TouchLastAccess(_ context.Context, userID int64) error {
	r.touched = append(r.touched, userID)
	return nil
}

func loginFixture(t *testing.T, refreshValidity string) (*AuthHandler, *stubStore, *stubRecorder) {
	t.Helper()
	hash, salt, err := auth.HashPassword("p")
	require.NoError(t, err)
	st := &stubStore{
		user: &model.User{ID: 1, Name: "alice", Email: "a@x.com", Role: "ADMIN", Password: hash, Status: true},
		salt: salt,
	}
	svc := auth.New(auth.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshValidityMin: refreshValidity}, st)
	rec := &stubRecorder{}
	return NewAuthHandler(svc, rec), st, rec
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Login(e.NewContext(req, rec))
	return rec
}

func TestLoginEndpointSuccess(t *testing.T) {
	h, st, touched := loginFixture(t, "60")

	rec := postLogin(h, `{"login":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["userId"])
	assert.Equal(t, "ADMIN", resp["role"])
	assert.Equal(t, "alice", resp["name"])
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, st.persistedToken, resp["refreshToken"])

	assert.Equal(t, []int64{1}, touched.touched)
}

// Unknown identifier and wrong password produce the same external
// response so clients cannot probe which accounts exist.
func TestLoginEndpointUnifiedRejection(t *testing.T) {
	h, _, _ := loginFixture(t, "60")

	notFound := postLogin(h, `{"login":"nobody@x.com","password":"p"}`)
	wrongPass := postLogin(h, `{"login":"a@x.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, notFound.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.JSONEq(t, notFound.Body.String(), wrongPass.Body.String())
}

func TestLoginEndpointMissingFields(t *testing.T) {
	h, _, _ := loginFixture(t, "60")

	rec := postLogin(h, `{"login":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpointConfigErrorIsServerFailure(t *testing.T) {
	h, st, _ := loginFixture(t, "")

	rec := postLogin(h, `{"login":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, st.persistedToken)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal error", resp["error"])
}
