package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/middleware"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// AtRiskUsers returns the triage queue ranked by derived risk score.
func (h *DashboardHandler) AtRiskUsers(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)

	minScore, _ := strconv.Atoi(c.Query("min_score", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	users, total, err := h.dashboard.AtRiskUsers(c.UserContext(), actor, minScore, limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// AuditTrail queries the administrative ledger.
func (h *DashboardHandler) AuditTrail(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	filter := services.AuditFilter{
		Action:     models.AuditAction(c.Query("action", "")),
		TargetType: models.TargetType(c.Query("target_type", "")),
		TargetID:   c.Query("target_id", ""),
		Limit:      limit,
		Offset:     offset,
	}
	if v := c.Query("actor_id", ""); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.ActorID = &id
		}
	}
	if v := c.Query("since", ""); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Since = &t
		}
	}

	entries, total, err := h.dashboard.AuditTrail(c.UserContext(), actor, filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}
