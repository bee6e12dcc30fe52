package services

import (
	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/policy"
)

// Actor is the authenticated principal performing a moderation action,
// as supplied by the identity layer. Role and IP are captured here so
// audit entries record them as they were at the time of the action.
type Actor struct {
	ID   uuid.UUID
	Role policy.Role
	IP   string
}
