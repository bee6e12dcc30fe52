package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/policy"
	"gorm.io/datatypes"
)

// AuditAction is the closed set of auditable administrative actions.
type AuditAction string

const (
	AuditUserWarn        AuditAction = "user:warn"
	AuditUserUnwarn      AuditAction = "user:unwarn"
	AuditUserSuspend     AuditAction = "user:suspend"
	AuditUserAutoSuspend AuditAction = "user:auto_suspend"
	AuditUserUnsuspend   AuditAction = "user:unsuspend"
	AuditUserBan         AuditAction = "user:ban"
	AuditUserUnban       AuditAction = "user:unban"
	AuditUserSurveilOn   AuditAction = "user:surveillance_on"
	AuditUserSurveilOff  AuditAction = "user:surveillance_off"

	AuditContentHide   AuditAction = "content:hide"
	AuditContentDelete AuditAction = "content:delete"

	AuditReportAssign   AuditAction = "report:assign"
	AuditReportEscalate AuditAction = "report:escalate"
	AuditReportReview   AuditAction = "report:review"
	AuditReportAction   AuditAction = "report:action"
	AuditReportDismiss  AuditAction = "report:dismiss"

	AuditConfigUpdate AuditAction = "config:update"

	AuditStaffLogin  AuditAction = "staff:login"
	AuditStaffLogout AuditAction = "staff:logout"
)

// AuditLog is one immutable entry of the administrative ledger. The
// codebase exposes no update or delete path for this model; every row
// is a permanent fact. ActorRole is copied at write time so later role
// changes never rewrite history.
type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"actor_id"`
	ActorRole policy.Role `gorm:"size:20;not null" json:"actor_role"`
	ActorIP   string      `gorm:"size:45" json:"actor_ip,omitempty"`

	Action     AuditAction `gorm:"size:40;not null;index" json:"action"`
	TargetType TargetType  `gorm:"size:20;not null;index:idx_audit_target" json:"target_type"`
	TargetID   string      `gorm:"size:255;not null;index:idx_audit_target" json:"target_id"`
	Reason     string      `gorm:"size:1000" json:"reason,omitempty"`

	// Point-in-time {before, after} copy of the mutated fields, kept for
	// forensic reconstruction after the target itself changes.
	Snapshot datatypes.JSON `gorm:"type:jsonb" json:"snapshot,omitempty"`

	RelatedReportID *uuid.UUID `gorm:"type:uuid;index" json:"related_report_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// Snapshot halves, marshalled into AuditLog.Snapshot.
type SnapshotPair struct {
	Before map[string]any `json:"before,omitempty"`
	After  map[string]any `json:"after,omitempty"`
}
