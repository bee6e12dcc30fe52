package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType distinguishes sanction notification bodies.
type NotificationType string

const (
	NotifyWarning          NotificationType = "moderation_warning"
	NotifySuspension       NotificationType = "moderation_suspension"
	NotifyBan              NotificationType = "moderation_ban"
	NotifySanctionRevoked  NotificationType = "moderation_sanction_revoked"
	NotifyContentModerated NotificationType = "moderation_content_removed"
)

// Notification is the user-facing record handed to the delivery
// collaborator. Data carries the reason, suspension expiry and the
// pre-deletion content snapshot where applicable.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        NotificationType `gorm:"size:40;not null" json:"type"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Message     string           `gorm:"size:2000;not null" json:"message"`
	Data        datatypes.JSON   `gorm:"type:jsonb;default:'{}'" json:"data"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
