package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tribefund/moderation-backend/internal/dto"
	"github.com/tribefund/moderation-backend/internal/policy"
	"github.com/tribefund/moderation-backend/internal/services"
)

// AccountGate rejects banned and suspended accounts on every
// authenticated request, before any permission logic runs. The check
// itself is read-only: one user load, one pure decision. A ban always
// wins over a suspension, so a banned staff account cannot act through
// its permissions.
func AccountGate(users services.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := PrincipalFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		user, err := users.FindByID(c.UserContext(), actor.ID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Unknown account",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		status := user.Status(time.Now())
		switch status.Code {
		case policy.StatusBanned:
			return c.Status(fiber.StatusForbidden).JSON(dto.AccountStatusResponse{
				Error:   true,
				Code:    string(policy.StatusBanned),
				Message: "This account has been banned.",
			})
		case policy.StatusSuspended:
			return c.Status(fiber.StatusForbidden).JSON(dto.AccountStatusResponse{
				Error:          true,
				Code:           string(policy.StatusSuspended),
				Message:        "This account is temporarily suspended.",
				SuspendedUntil: status.SuspendedUntil,
			})
		}

		// The role on the row is authoritative over the token claim.
		actor.Role = user.Role
		c.Locals(principalKey, actor)
		return c.Next()
	}
}
