package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionfiesta/helpdesk/internal/api/dto"
	"github.com/fashionfiesta/helpdesk/internal/service"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// UsersHandler exposes auth endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(user, token, exp))
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(user, token, exp))
}
