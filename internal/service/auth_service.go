package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fashionfiesta/helpdesk/internal/auth"
	"github.com/fashionfiesta/helpdesk/internal/config"
	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/repository"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new customer account and signs them in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email and password are required")
	}
	if len(password) < 6 {
		return nil, "", time.Time{}, apperrors.NewValidationError("password must be at least 6 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}
