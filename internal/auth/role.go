package auth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matheusvidal/stockman/internal/model"
)

// Role is the closed set of account roles. The three values form a
// strict total order: ADMIN outranks MODERADOR, which outranks USER.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerador Role = "MODERADOR"
	RoleAdmin     Role = "ADMIN"
)

// tiers lists every role from highest to lowest rank. Capability
// markers are emitted in this order.
var tiers = []Role{RoleAdmin, RoleModerador, RoleUser}

func rank(r Role) int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleModerador:
		return 1
	case RoleUser:
		return 0
	}
	return -1
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool { return rank(r) >= 0 }

// Marker returns the lowercase capability marker embedded in tokens
// for this role tier.
func (r Role) Marker() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleModerador:
		return "moderador"
	default:
		return "user"
	}
}

// Includes reports whether an account holding role r may perform
// operations gated at the other tier. ADMIN includes everything.
func (r Role) Includes(other Role) bool {
	return r.Valid() && other.Valid() && rank(r) >= rank(other)
}

// CapabilityMarkers returns the cumulative marker list for a role,
// highest tier first: an ADMIN token carries admin, moderador and user
// so that a check for any single marker admits every role at or above
// that tier. Unknown roles are a domain error.
func CapabilityMarkers(r Role) ([]string, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrDomain, string(r))
	}
	markers := make([]string, 0, len(tiers))
	for _, t := range tiers {
		if r.Includes(t) {
			markers = append(markers, t.Marker())
		}
	}
	return markers, nil
}

// Claims is the set of facts encoded into an access token: the
// account identity plus the cumulative capability markers. TokenID is
// a fresh UUID per call so that two tokens for the same account are
// always distinguishable.
type Claims struct {
	Subject string
	Name    string
	Email   string
	TokenID string
	Roles   []string
}

// BuildClaims derives the claim set for an account. Pure apart from
// the generated token id; fails only on an unknown role.
func BuildClaims(u *model.User) (Claims, error) {
	markers, err := CapabilityMarkers(Role(u.Role))
	if err != nil {
		return Claims{}, err
	}
	return Claims{
		Subject: fmt.Sprintf("%d", u.ID),
		Name:    u.Name,
		Email:   u.Email,
		TokenID: uuid.NewString(),
		Roles:   markers,
	}, nil
}
