package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bizops-service/internal/domain"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// RequireRole ensures the identity's role is one of the allowed set. The set
// is closed-world: a role not listed is denied. The allowed set is declared
// per route, not per request.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			// unreachable when ordered after Middleware.Handle
			return apperrors.NewUnauthenticated("no identity attached to request")
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewInsufficientRole()
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures an identity is attached, any role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthenticated("no identity attached to request")
		}
		return c.Next()
	}
}
