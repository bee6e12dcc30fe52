package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is the minimal slice of the content store this subsystem touches:
// enough to fetch, soft-hide and hard-delete, and to snapshot a body
// before removal. The full post schema is owned elsewhere.
type Post struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Body      string         `gorm:"type:text" json:"body"`
	MediaURL  string         `gorm:"size:500" json:"media_url,omitempty"`
	Hidden    bool           `gorm:"not null;default:false" json:"hidden"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment mirrors Post for comment targets.
type Comment struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	Body      string         `gorm:"type:text" json:"body"`
	Hidden    bool           `gorm:"not null;default:false" json:"hidden"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
