package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
	"gorm.io/gorm"
)

// ReportFilter narrows report listings for the moderation queue.
type ReportFilter struct {
	Status    models.ReportStatus
	Priority  policy.Priority
	Escalated *bool
	Limit     int
	Offset    int
}

// ReportRepository is the persistence surface of the report store.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	FindByReporterAndTarget(ctx context.Context, reporter uuid.UUID, tt models.TargetType, targetID string) (*models.Report, error)
	// IncrementAggregate bumps aggregate_count atomically in the database,
	// never read-then-write.
	IncrementAggregate(ctx context.Context, id uuid.UUID) error
	CountForTarget(ctx context.Context, tt models.TargetType, targetID string) (int64, error)
	// CountByUserTargets returns the report count per user target for a
	// whole page of users in one grouped query.
	CountByUserTargets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	// MarkEscalated fires at most once per report: the UPDATE is guarded
	// by escalated_at IS NULL.
	MarkEscalated(ctx context.Context, id uuid.UUID, by, reason string, priority policy.Priority, at time.Time) (bool, error)
	Assign(ctx context.Context, id uuid.UUID, staff uuid.UUID, at time.Time) error
	// Transition applies lifecycle updates guarded by the expected current
	// status; reports whether the guard matched.
	Transition(ctx context.Context, id uuid.UUID, from models.ReportStatus, updates map[string]interface{}) (bool, error)
	List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error)
}

type gormReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

func (r *gormReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *gormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

func (r *gormReportRepository) FindByReporterAndTarget(ctx context.Context, reporter uuid.UUID, tt models.TargetType, targetID string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Where("reporter_id = ? AND target_type = ? AND target_id = ?", reporter, tt, targetID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

func (r *gormReportRepository) IncrementAggregate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Update("aggregate_count", gorm.Expr("aggregate_count + 1")).Error
}

func (r *gormReportRepository) CountForTarget(ctx context.Context, tt models.TargetType, targetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("target_type = ? AND target_id = ?", tt, targetID).
		Count(&count).Error
	return count, err
}

func (r *gormReportRepository) CountByUserTargets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	targetIDs := make([]string, len(ids))
	for i, id := range ids {
		targetIDs[i] = id.String()
	}

	var rows []struct {
		TargetID string
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_type = ? AND target_id IN ?", models.TargetUser, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reports per user: %w", err)
	}

	for _, row := range rows {
		if id, perr := uuid.Parse(row.TargetID); perr == nil {
			counts[id] = row.N
		}
	}
	return counts, nil
}

func (r *gormReportRepository) MarkEscalated(ctx context.Context, id uuid.UUID, by, reason string, priority policy.Priority, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND escalated_at IS NULL", id).
		Updates(map[string]interface{}{
			"escalated_at":      at,
			"escalated_by":      by,
			"escalation_reason": reason,
			"priority":          priority,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to escalate report: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormReportRepository) Assign(ctx context.Context, id uuid.UUID, staff uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to": staff,
			"assigned_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to assign report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *gormReportRepository) Transition(ctx context.Context, id uuid.UUID, from models.ReportStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition report: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Escalated != nil {
		if *filter.Escalated {
			query = query.Where("escalated_at IS NOT NULL")
		} else {
			query = query.Where("escalated_at IS NULL")
		}
	}
	query.Count(&total)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
