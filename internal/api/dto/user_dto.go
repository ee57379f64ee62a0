package dto

import (
	"time"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// RegisterRequest payload for new customer accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserRef   `json:"user"`
}

// NewAuthResponse builds the auth payload.
func NewAuthResponse(user *domain.User, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *NewUserRef(user),
	}
}
