package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

var nowFunc = time.Now

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
