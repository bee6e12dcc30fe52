package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tribefund/moderation-backend/internal/dto"
	"github.com/tribefund/moderation-backend/internal/policy"
)

// RequireMinRole gates a route on the role hierarchy. It must be
// mounted after AccountGate; the gate's status check always runs first.
func RequireMinRole(min policy.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := Principal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !policy.HasMinRole(actor.Role, min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient role",
			})
		}
		return c.Next()
	}
}

// RequirePermission gates a route on a named capability.
func RequirePermission(perm policy.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := Principal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !policy.HasPermission(actor.Role, perm) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Missing permission: " + string(perm),
			})
		}
		return c.Next()
	}
}
