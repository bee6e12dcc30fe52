package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tribefund/moderation-backend/internal/dto"
	"github.com/tribefund/moderation-backend/internal/services"
)

// serviceError maps the service error taxonomy onto HTTP responses.
// Infra errors stay generic; the caller may retry.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: "Validation failed", Fields: verr.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrWarningNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyBanned),
		errors.Is(err, services.ErrNotBanned),
		errors.Is(err, services.ErrPastSuspension):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrSelfReport):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
