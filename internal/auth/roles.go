package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// RequireAuth ensures the caller is authenticated.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller holds the support or admin role.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.IsStaff() {
			return apperrors.NewForbidden("staff access required")
		}
		return c.Next()
	}
}
