package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/policy"
	"github.com/tribefund/moderation-backend/internal/services"
)

const principalKey = "principal"

// PrincipalFromToken builds the services.Actor from the verified JWT
// claims plus the request IP. The identity layer owns the claim shape:
// sub carries the user id, role the role name.
func PrincipalFromToken(c *fiber.Ctx) (services.Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return services.Actor{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return services.Actor{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return services.Actor{}, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return services.Actor{}, errors.New("sub claim is not a valid user id")
	}

	role := policy.RoleUser
	if r, ok := claims["role"].(string); ok && r != "" {
		role = policy.Role(r)
	}

	return services.Actor{ID: id, Role: role, IP: c.IP()}, nil
}

// Principal returns the actor stored by the account gate. The gate
// always runs first on protected routes, so a missing principal is a
// wiring bug surfaced as 401.
func Principal(c *fiber.Ctx) (services.Actor, bool) {
	actor, ok := c.Locals(principalKey).(services.Actor)
	return actor, ok
}
