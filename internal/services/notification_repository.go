package services

import (
	"context"

	"github.com/tribefund/moderation-backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository persists the user-facing notification rows the
// delivery collaborator reads from.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}
