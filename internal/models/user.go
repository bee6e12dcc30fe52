package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Warning is one entry of the append-only warnings list embedded on the
// user row.
type Warning struct {
	Reason   string    `json:"reason"`
	IssuedBy uuid.UUID `json:"issued_by"`
	IssuedAt time.Time `json:"issued_at"`
}

// User carries the platform identity plus the embedded sanction state.
// Sanction fields are mutated only through audited moderation actions;
// the row keeps no history of its own, the audit ledger does.
type User struct {
	ID       uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email    string      `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Username string      `gorm:"not null;size:100" json:"username"`
	Role     policy.Role `gorm:"size:20;default:'user'" json:"role"`

	// Sanction state. Ban and suspension are independent; ban wins in
	// every access check.
	Warnings       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"warnings"`
	SuspendedUntil *time.Time     `json:"suspended_until,omitempty"`
	BannedAt       *time.Time     `json:"banned_at,omitempty"`
	BanReason      string         `gorm:"size:500" json:"ban_reason,omitempty"`

	// Non-punitive monitoring flag.
	SurveillanceActive  bool       `gorm:"not null;default:false" json:"surveillance_active"`
	SurveillanceAddedBy *uuid.UUID `gorm:"type:uuid" json:"surveillance_added_by,omitempty"`
	SurveillanceAddedAt *time.Time `json:"surveillance_added_at,omitempty"`

	// System-triggered suspensions, distinct from manual ones.
	AutoSuspensionsCount int `gorm:"not null;default:0" json:"auto_suspensions_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WarningList decodes the embedded warnings JSON.
func (u *User) WarningList() []Warning {
	var list []Warning
	if len(u.Warnings) == 0 {
		return list
	}
	_ = json.Unmarshal(u.Warnings, &list)
	return list
}

// Status runs the pure access gate over this row.
func (u *User) Status(now time.Time) policy.AccountStatus {
	return policy.CheckAccount(u.BannedAt, u.SuspendedUntil, now)
}
