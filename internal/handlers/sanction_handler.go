package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/dto"
	"github.com/tribefund/moderation-backend/internal/middleware"
	"github.com/tribefund/moderation-backend/internal/services"
)

type SanctionHandler struct {
	sanctions *services.SanctionService
}

func NewSanctionHandler(sanctions *services.SanctionService) *SanctionHandler {
	return &SanctionHandler{sanctions: sanctions}
}

func (h *SanctionHandler) targetUser(c *fiber.Ctx) (services.Actor, uuid.UUID, bool) {
	actor, ok := middleware.Principal(c)
	if !ok {
		return services.Actor{}, uuid.Nil, false
	}
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return actor, uuid.Nil, false
	}
	return actor, userID, true
}

func (h *SanctionHandler) Warn(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.WarnUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.Warn(c.UserContext(), actor, userID, req.Reason, nil); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Warning issued"})
}

func (h *SanctionHandler) RevokeWarning(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.RevokeWarningRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.RevokeWarning(c.UserContext(), actor, userID, req.Index, req.Reason); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Warning revoked"})
}

func (h *SanctionHandler) Suspend(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.SuspendUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.Suspend(c.UserContext(), actor, userID, req.Until, req.Reason, nil); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User suspended"})
}

func (h *SanctionHandler) Unsuspend(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.UnsanctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.Unsuspend(c.UserContext(), actor, userID, req.Reason); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Suspension lifted"})
}

func (h *SanctionHandler) Ban(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.BanUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.Ban(c.UserContext(), actor, userID, req.Reason, nil); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User banned"})
}

func (h *SanctionHandler) Unban(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.UnsanctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.Unban(c.UserContext(), actor, userID, req.Reason); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ban lifted"})
}

func (h *SanctionHandler) Surveillance(c *fiber.Ctx) error {
	actor, userID, ok := h.targetUser(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.SurveillanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sanctions.SetSurveillance(c.UserContext(), actor, userID, req.Active, req.Reason); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Surveillance updated"})
}
