package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carenest/marketplace/internal/domain"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// RequireRole ensures the principal holds one of the allowed roles. Role
// violations are authorization failures and answer 401.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewUnauthorized("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin is the elevated predicate for administrative routes.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
