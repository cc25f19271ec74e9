package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/matheusvidal/stockman/internal/model"
)

// CredentialStore is the persistence capability the login flow
// consumes. Lookups report absence as (nil, nil); only real failures
// return an error. FindSalt must fail when no salt row exists for an
// otherwise valid account. UpdateRefreshToken writes token and expiry
// in a single statement.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	FindSalt(ctx context.Context, userID int64) (string, error)
	UpdateRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
}

// Session is the result of a successful login, returned to the HTTP
// layer. It is never persisted as a unit; the refresh token and its
// expiry are stored on the user row, the access token nowhere.
type Session struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Role         Role
	Name         string
}

// Service orchestrates the login flow. It holds no mutable state, so
// a single instance serves concurrent logins without coordination;
// racing writes of the refresh token for the same account are
// last-write-wins on purpose.
type Service struct {
	cfg   Config
	store CredentialStore
}

func New(cfg Config, store CredentialStore) *Service {
	return &Service{cfg: cfg, store: store}
}

// Login verifies an identifier/password pair and issues a session.
// The identifier is tried as an email first, then as a username.
//
// Failures map onto the package sentinels: no matching account is
// ErrAccountNotFound, a password mismatch is ErrInvalidCredentials,
// store trouble is ErrStore, a corrupt role is ErrDomain and a bad
// refresh validity setting is ErrConfig. Nothing is retried, and when
// the refresh token cannot be persisted the already-issued tokens are
// discarded rather than returned half-valid.
func (s *Service) Login(ctx context.Context, identifier, password string) (Session, error) {
	u, err := s.resolveAccount(ctx, identifier)
	if err != nil {
		return Session{}, err
	}

	salt, err := s.store.FindSalt(ctx, u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("%w: fetch salt for user %d: %v", ErrStore, u.ID, err)
	}

	if !VerifyPassword(password, u.Password, salt) {
		return Session{}, ErrInvalidCredentials
	}

	claims, err := BuildClaims(u)
	if err != nil {
		return Session{}, err
	}

	access, err := NewAccessToken(s.cfg.JWTSecret, claims, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := NewRefreshToken()
	if err != nil {
		return Session{}, fmt.Errorf("generate refresh token: %w", err)
	}

	validity, err := s.cfg.refreshValidity()
	if err != nil {
		return Session{}, err
	}
	refreshExp := time.Now().UTC().Add(validity)

	if err := s.store.UpdateRefreshToken(ctx, u.ID, refresh, refreshExp); err != nil {
		return Session{}, fmt.Errorf("%w: persist refresh token for user %d: %v", ErrStore, u.ID, err)
	}

	return Session{
		UserID:       u.ID,
		AccessToken:  access.Token,
		RefreshToken: refresh,
		ExpiresAt:    access.Exp,
		Role:         Role(u.Role),
		Name:         u.Name,
	}, nil
}

// resolveAccount turns the login identifier into a single account
// before any further step; nothing downstream branches on which field
// matched.
func (s *Service) resolveAccount(ctx context.Context, identifier string) (*model.User, error) {
	u, err := s.store.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup by email: %v", ErrStore, err)
	}
	if u == nil {
		u, err = s.store.FindByName(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("%w: lookup by name: %v", ErrStore, err)
		}
	}
	if u == nil {
		return nil, ErrAccountNotFound
	}
	return u, nil
}
