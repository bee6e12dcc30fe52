package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tribefund/moderation-backend/internal/database"
	"github.com/tribefund/moderation-backend/internal/dto"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	status := "healthy"
	if err := database.Ping(); err != nil {
		dbStatus = "unreachable"
		status = "degraded"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
