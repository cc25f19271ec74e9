package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken represents a signed JWT access token along with its
// expiry. Access tokens are short-lived and presented in the
// Authorization header on subsequent requests.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// Config carries the process-wide token settings. It is read once at
// startup and passed into the Service at construction so the fatal
// configuration path stays deterministic and testable.
//
// RefreshValidityMin is kept as the raw environment value: a missing
// or non-numeric value is an ErrConfig at first use, never silently
// defaulted.
type Config struct {
	JWTSecret          string
	AccessTTLMin       int
	RefreshValidityMin string
}

// refreshValidity parses and validates the configured refresh token
// lifetime in minutes.
func (c Config) refreshValidity() (time.Duration, error) {
	raw := strings.TrimSpace(c.RefreshValidityMin)
	if raw == "" {
		return 0, fmt.Errorf("%w: JWT_REFRESH_TOKEN_VALIDITY_IN_MINUTES is not set", ErrConfig)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: JWT_REFRESH_TOKEN_VALIDITY_IN_MINUTES must be a positive integer, got %q", ErrConfig, raw)
	}
	return time.Duration(n) * time.Minute, nil
}

// NewAccessToken builds and signs an HS256 JWT carrying the claim
// set. The token encodes sub, name, email, jti and the cumulative
// role markers, plus standard exp and iat claims. Expiry is now plus
// the configured access TTL.
func NewAccessToken(secret string, cl Claims, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   cl.Subject,
		"name":  cl.Name,
		"email": cl.Email,
		"jti":   cl.TokenID,
		"roles": cl.Roles,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a high-entropy opaque token. It carries no
// structure; validity is decided by equality against the value stored
// on the account row.
func NewRefreshToken() (string, error) {
	return randomHex(48) // 48 bytes -> 96 hex chars
}
