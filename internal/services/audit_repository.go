package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"gorm.io/gorm"
)

// AuditFilter narrows audit trail queries.
type AuditFilter struct {
	ActorID    *uuid.UUID
	Action     models.AuditAction
	TargetType models.TargetType
	TargetID   string
	Since      *time.Time
	Limit      int
	Offset     int
}

// AuditRepository is insert-and-query only. There is deliberately no
// update or delete method; the ledger is append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error)
}

type gormAuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &gormAuditRepository{db: db}
}

func (r *gormAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepository) List(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	query.Count(&total)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
