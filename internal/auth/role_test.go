package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvidal/stockman/internal/model"
)

func TestCapabilityMarkers(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want []string
	}{
		{name: "admin gets all three tiers", role: RoleAdmin, want: []string{"admin", "moderador", "user"}},
		{name: "moderador gets two tiers", role: RoleModerador, want: []string{"moderador", "user"}},
		{name: "user gets one tier", role: RoleUser, want: []string{"user"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CapabilityMarkers(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCapabilityMarkersUnknownRole(t *testing.T) {
	_, err := CapabilityMarkers(Role("SUPERVISOR"))
	require.ErrorIs(t, err, ErrDomain)
}

// Each tier's marker set must strictly contain the tier below it, so
// a gate testing one marker admits every role at or above it.
func TestCapabilityMarkersAreStrictSupersets(t *testing.T) {
	admin, err := CapabilityMarkers(RoleAdmin)
	require.NoError(t, err)
	mod, err := CapabilityMarkers(RoleModerador)
	require.NoError(t, err)
	user, err := CapabilityMarkers(RoleUser)
	require.NoError(t, err)

	assert.Greater(t, len(admin), len(mod))
	assert.Greater(t, len(mod), len(user))
	assert.Subset(t, admin, mod)
	assert.Subset(t, mod, user)
}

func TestRoleIncludes(t *testing.T) {
	assert.True(t, RoleAdmin.Includes(RoleUser))
	assert.True(t, RoleAdmin.Includes(RoleModerador))
	assert.True(t, RoleModerador.Includes(RoleUser))
	assert.False(t, RoleUser.Includes(RoleModerador))
	assert.False(t, RoleModerador.Includes(RoleAdmin))
	assert.False(t, RoleUser.Includes(Role("SUPERVISOR")))
}

func TestBuildClaims(t *testing.T) {
	u := &model.User{ID: 7, Name: "alice", Email: "a@x.com", Role: "MODERADOR"}

	cl, err := BuildClaims(u)
	require.NoError(t, err)

	assert.Equal(t, "7", cl.Subject)
	assert.Equal(t, "alice", cl.Name)
	assert.Equal(t, "a@x.com", cl.Email)
	assert.Equal(t, []string{"moderador", "user"}, cl.Roles)
	assert.NotEmpty(t, cl.TokenID)

	// A second build must mint a different token id.
	cl2, err := BuildClaims(u)
	require.NoError(t, err)
	assert.NotEqual(t, cl.TokenID, cl2.TokenID)
}

func TestBuildClaimsCorruptRole(t *testing.T) {
	u := &model.User{ID: 7, Name: "alice", Email: "a@x.com", Role: "root"}
	_, err := BuildClaims(u)
	require.ErrorIs(t, err, ErrDomain)
}
