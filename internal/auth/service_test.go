package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvidal/stockman/internal/model"
)

// fakeStore is an in-memory CredentialStore with injectable faults.
type fakeStore struct {
	users map[int64]*model.User
	salts map[int64]string

	persisted map[int64]persistedRefresh

	lookupErr  error
	saltErr    error
	persistErr error
}

type persistedRefresh struct {
	token     string
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[int64]*model.User{},
		salts:     map[int64]string{},
		persisted: map[int64]persistedRefresh{},
	}
}

func (f *fakeStore) add(u model.User, salt string) {
	f.users[u.ID] = &u
	f.salts[u.ID] = salt
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByName(_ context.Context, name string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindSalt(_ context.Context, userID int64) (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	salt, ok := f.salts[userID]
	if !ok {
		return "", errors.New("no salt row")
	}
	return salt, nil
}

func (f *fakeStore) UpdateRefreshToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.persisted[userID] = persistedRefresh{token: token, expiresAt: expiresAt}
	return nil
}

func testConfig() Config {
	return Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshValidityMin: "60"}
}

// seedAccount provisions the spec scenario account: id 1, alice,
// a@x.com, password "p".
func seedAccount(t *testing.T, st *fakeStore, role Role) model.User {
	t.Helper()
	hash, salt, err := HashPassword("p")
	require.NoError(t, err)
	u := model.User{ID: 1, Name: "alice", Email: "a@x.com", Role: string(role), Password: hash, Status: true}
	st.add(u, salt)
	return u
}

func TestLoginByEmail(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleAdmin)
	svc := New(testConfig(), st)

	sess, err := svc.Login(context.Background(), "a@x.com", "p")
	require.NoError(t, err)

	assert.Equal(t, int64(1), sess.UserID)
	assert.Equal(t, RoleAdmin, sess.Role)
	assert.Equal(t, "alice", sess.Name)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	// Claims reconstructed from the access token carry the cumulative
	// markers for ADMIN.
	claims := parseAccessToken(t, "test-secret", sess.AccessToken)
	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, "alice", claims["name"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Equal(t, []interface{}{"admin", "moderador", "user"}, claims["roles"])
	assert.NotEmpty(t, claims["jti"])

	// Refresh token was persisted with an expiry one hour out.
	got, ok := st.persisted[1]
	require.True(t, ok)
	assert.Equal(t, sess.RefreshToken, got.token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), got.expiresAt, 2*time.Second)
}

func TestLoginByUsername(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleUser)
	svc := New(testConfig(), st)

	sess, err := svc.Login(context.Background(), "alice", "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.UserID)

	claims := parseAccessToken(t, "test-secret", sess.AccessToken)
	assert.Equal(t, []interface{}{"user"}, claims["roles"])
}

func TestLoginUnknownIdentifier(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleUser)
	svc := New(testConfig(), st)

	_, err := svc.Login(context.Background(), "nobody@x.com", "p")
	require.ErrorIs(t, err, ErrAccountNotFound)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, st.persisted)
}

func TestLoginWrongPassword(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleAdmin)
	svc := New(testConfig(), st)

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Refresh token state is untouched by a failed attempt.
	assert.Empty(t, st.persisted)
}

func TestLoginMissingSaltIsStoreError(t *testing.T) {
	st := newFakeStore()
	u := seedAccount(t, st, RoleUser)
	delete(st.salts, u.ID)
	svc := New(testConfig(), st)

	_, err := svc.Login(context.Background(), "a@x.com", "p")
	require.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestLoginLookupFailureIsStoreError(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleUser)
	st.lookupErr = errors.New("connection refused")
	svc := New(testConfig(), st)

	_, err := svc.Login(context.Background(), "a@x.com", "p")
	require.ErrorIs(t, err, ErrStore)
}

func TestLoginCorruptRoleIsDomainError(t *testing.T) {
	st := newFakeStore()
	hash, salt, err := HashPassword("p")
	require.NoError(t, err)
	st.add(model.User{ID: 2, Name: "bob", Email: "b@x.com", Role: "SUPERUSER", Password: hash}, salt)
	svc := New(testConfig(), st)

	_, err = svc.Login(context.Background(), "b@x.com", "p")
	require.ErrorIs(t, err, ErrDomain)
	assert.Empty(t, st.persisted)
}

func TestLoginPersistFailureReturnsNoSession(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleAdmin)
	st.persistErr = errors.New("deadlock")
	svc := New(testConfig(), st)

	sess, err := svc.Login(context.Background(), "a@x.com", "p")
	require.ErrorIs(t, err, ErrStore)

	// The issued tokens are discarded, never half-returned.
	assert.Zero(t, sess)
	assert.Empty(t, st.persisted)
}

func TestLoginMissingRefreshValidityIsConfigError(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleAdmin)
	cfg := testConfig()
	cfg.RefreshValidityMin = ""
	svc := New(cfg, st)

	_, err := svc.Login(context.Background(), "a@x.com", "p")
	require.ErrorIs(t, err, ErrConfig)

	// Nothing was written before the config check fired.
	assert.Empty(t, st.persisted)
}

func TestLoginNonNumericRefreshValidityIsConfigError(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleAdmin)
	cfg := testConfig()
	cfg.RefreshValidityMin = "never"
	svc := New(cfg, st)

	_, err := svc.Login(context.Background(), "a@x.com", "p")
	require.ErrorIs(t, err, ErrConfig)
	assert.Empty(t, st.persisted)
}

// Two sequential logins must mint distinct refresh tokens and
// distinct per-token ids; the second refresh token overwrites the
// first (last-write-wins).
func TestSequentialLoginsRotateTokens(t *testing.T) {
	st := newFakeStore()
	seedAccount(t, st, RoleModerador)
	svc := New(testConfig(), st)

	first, err := svc.Login(context.Background(), "a@x.com", "p")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "a@x.com", "p")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	jti1 := parseAccessToken(t, "test-secret", first.AccessToken)["jti"]
	jti2 := parseAccessToken(t, "test-secret", second.AccessToken)["jti"]
	assert.NotEqual(t, jti1, jti2)

	assert.Equal(t, second.RefreshToken, st.persisted[1].token)
}

// The role markers inside a real signed token obey the hierarchy for
// every role, end to end through Login.
func TestLoginClaimSetPerRole(t *testing.T) {
	tests := []struct {
		role Role
		want []interface{}
	}{
		{role: RoleAdmin, want: []interface{}{"admin", "moderador", "user"}},
		{role: RoleModerador, want: []interface{}{"moderador", "user"}},
		{role: RoleUser, want: []interface{}{"user"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			st := newFakeStore()
			seedAccount(t, st, tt.role)
			svc := New(testConfig(), st)

			sess, err := svc.Login(context.Background(), "a@x.com", "p")
			require.NoError(t, err)
			require.Equal(t, tt.role, sess.Role)

			claims := parseAccessToken(t, "test-secret", sess.AccessToken)
			assert.Equal(t, tt.want, claims["roles"])

			tok, err := jwt.Parse(sess.AccessToken, func(*jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			})
			require.NoError(t, err)
			assert.True(t, tok.Valid)
		})
	}
}
