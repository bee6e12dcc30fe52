package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details,omitempty"`
}

type ProcessReportRequest struct {
	Status string `json:"status"`
	Action string `json:"action,omitempty"`
	Reason string `json:"reason,omitempty"`
	// Suspension end when action is suspend_user; the configured default
	// applies when omitted.
	Until *time.Time `json:"until,omitempty"`
}

type AssignReportRequest struct {
	StaffID uuid.UUID `json:"staff_id"`
}

type EscalateReportRequest struct {
	Reason string `json:"reason"`
}

type WarnUserRequest struct {
	Reason string `json:"reason"`
}

type SuspendUserRequest struct {
	Until  time.Time `json:"until"`
	Reason string    `json:"reason"`
}

type BanUserRequest struct {
	Reason string `json:"reason"`
}

type UnsanctionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type SurveillanceRequest struct {
	Active bool   `json:"active"`
	Reason string `json:"reason,omitempty"`
}

type RevokeWarningRequest struct {
	Index  int    `json:"index"`
	Reason string `json:"reason,omitempty"`
}
