package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	user := &domain.User{ID: "user-1", Role: domain.RoleSupport}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleSupport, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	other := NewTokenManager("different", 30)

	token, _, err := tm.GenerateToken(&domain.User{ID: "user-1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, ComparePassword(hash, "hunter22"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestPasswordHashingClampsCost(t *testing.T) {
	// zero and negative costs fall back to the bcrypt default instead of
	// failing account creation
	for _, cost := range []int{0, -1} {
		hash, err := HashPassword("hunter22", cost)
		require.NoError(t, err, "cost %d", cost)
		assert.NoError(t, ComparePassword(hash, "hunter22"))
	}
}
