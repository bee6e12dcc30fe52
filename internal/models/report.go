package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/policy"
)

// TargetType identifies what a report or moderation action points at.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
	TargetUser    TargetType = "user"
)

// ValidTargetType reports whether t is one of the known target kinds.
func ValidTargetType(t TargetType) bool {
	return t == TargetPost || t == TargetComment || t == TargetUser
}

// ReportStatus is the report lifecycle state.
type ReportStatus string

const (
	ReportPending     ReportStatus = "pending"
	ReportReviewed    ReportStatus = "reviewed"
	ReportActionTaken ReportStatus = "action_taken"
	ReportDismissed   ReportStatus = "dismissed"
)

// Terminal reports whether s admits no further transitions.
func (s ReportStatus) Terminal() bool {
	return s == ReportActionTaken || s == ReportDismissed
}

// CanTransition encodes the lifecycle: pending may move anywhere
// forward, reviewed may only close, terminal states never move. There
// is no path back to pending.
func (s ReportStatus) CanTransition(to ReportStatus) bool {
	switch s {
	case ReportPending:
		return to == ReportReviewed || to == ReportActionTaken || to == ReportDismissed
	case ReportReviewed:
		return to == ReportActionTaken || to == ReportDismissed
	default:
		return false
	}
}

// ModAction is the moderation outcome applied when a report is actioned.
type ModAction string

const (
	ActionNone          ModAction = "none"
	ActionHideContent   ModAction = "hide_content"
	ActionDeleteContent ModAction = "delete_content"
	ActionWarnUser      ModAction = "warn_user"
	ActionSuspendUser   ModAction = "suspend_user"
	ActionBanUser       ModAction = "ban_user"
)

// ValidModAction reports whether a is a known moderation action.
func ValidModAction(a ModAction) bool {
	switch a {
	case ActionNone, ActionHideContent, ActionDeleteContent,
		ActionWarnUser, ActionSuspendUser, ActionBanUser:
		return true
	}
	return false
}

// TargetsUser reports whether the action sanctions a person (directly
// or through authored content) and so must trigger the notifier.
func (a ModAction) TargetsUser() bool {
	return a == ActionWarnUser || a == ActionSuspendUser || a == ActionBanUser
}

// Report is one aggregated signal against a target. Exactly one row
// exists per (reporter, target); repeat reports from the same reporter
// bump AggregateCount on the existing row. Rows are never deleted.
type Report struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reports_reporter_target" json:"reporter_id"`
	TargetType TargetType `gorm:"size:20;not null;uniqueIndex:idx_reports_reporter_target;index:idx_reports_target" json:"target_type"`
	TargetID   string     `gorm:"size:255;not null;uniqueIndex:idx_reports_reporter_target;index:idx_reports_target" json:"target_id"`

	Reason  policy.Reason `gorm:"size:50;not null" json:"reason"`
	Details string        `gorm:"size:1000" json:"details,omitempty"`

	Priority policy.Priority `gorm:"size:20;not null;index" json:"priority"`
	Status   ReportStatus    `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Distinct reporters absorbed into this row via dedup.
	AggregateCount int `gorm:"not null;default:1" json:"aggregate_count"`

	AssignedTo *uuid.UUID `gorm:"type:uuid" json:"assigned_to,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`

	// Presence of EscalatedAt marks the report as escalated.
	EscalatedAt      *time.Time `json:"escalated_at,omitempty"`
	EscalatedBy      string     `gorm:"size:64" json:"escalated_by,omitempty"`
	EscalationReason string     `gorm:"size:500" json:"escalation_reason,omitempty"`

	ModeratedBy *uuid.UUID `gorm:"type:uuid" json:"moderated_by,omitempty"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
	Action      ModAction  `gorm:"size:30;not null;default:'none'" json:"action"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Escalated reports whether escalation already fired for this row.
func (r *Report) Escalated() bool {
	return r.EscalatedAt != nil
}

// EscalatedBySystem marks automatic escalations in EscalatedBy.
const EscalatedBySystem = "system"
