package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionfiesta/helpdesk/internal/config"
	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/repository"
)

func newAuthService() (*AuthService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4}
	return NewAuthService(cfg, store.Users()), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, token, exp, err := svc.Register(ctx, "Mona Hassan", "Mona@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Equal(t, "mona@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	loggedIn, token, _, err := svc.Login(ctx, "mona@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "", "a@b.com", "longenough")
	assertStatus(t, err, 400)

	_, _, _, err = svc.Register(ctx, "Mona", "a@b.com", "tiny")
	assertStatus(t, err, 400)

	_, _, _, err = svc.Register(ctx, "Mona", "dup@example.com", "hunter22")
	require.NoError(t, err)
	_, _, _, err = svc.Register(ctx, "Other", "dup@example.com", "hunter22")
	assertStatus(t, err, 400)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Mona", "mona@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "mona@example.com", "wrong-password")
	assertStatus(t, err, 401)

	_, _, _, err = svc.Login(ctx, "ghost@example.com", "hunter22")
	assertStatus(t, err, 401)
}
