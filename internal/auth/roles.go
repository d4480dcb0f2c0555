package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-desk/internal/domain"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// RequireRole ensures the authenticated principal carries role.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Authentication required")
		}
		if principal.Role != role {
			return apperrors.NewForbidden("Admin access required")
		}
		return c.Next()
	}
}
