package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/dto"
	"github.com/tribefund/moderation-backend/internal/middleware"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
	"github.com/tribefund/moderation-backend/internal/services"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create is the user-facing intake endpoint. Duplicate reports from the
// same reporter resolve by aggregation, not as an error.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.Principal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reports.CreateOrAggregate(c.UserContext(), actor.ID,
		models.TargetType(req.TargetType), req.TargetID, policy.Reason(req.Reason), req.Details)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	filter := services.ReportFilter{
		Status:   models.ReportStatus(c.Query("status", "")),
		Priority: policy.Priority(c.Query("priority", "")),
		Limit:    limit,
		Offset:   offset,
	}
	if v := c.Query("escalated", ""); v != "" {
		escalated := v == "true"
		filter.Escalated = &escalated
	}

	reports, total, err := h.reports.List(c.UserContext(), actor, filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, err := h.reports.Get(c.UserContext(), actor, reportID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Assign(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.AssignReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	staffID := req.StaffID
	if staffID == uuid.Nil {
		staffID = actor.ID
	}

	report, err := h.reports.Assign(c.UserContext(), actor, reportID, staffID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Escalate(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.EscalateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reports.Escalate(c.UserContext(), actor, reportID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

// Process applies a lifecycle transition plus its side effects.
func (h *ReportHandler) Process(c *fiber.Ctx) error {
	actor, _ := middleware.Principal(c)
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.ProcessReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reports.Process(c.UserContext(), actor, reportID,
		models.ReportStatus(req.Status), models.ModAction(req.Action), req.Reason, req.Until)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}
