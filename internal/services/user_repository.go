package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the slice of user persistence the sanction machinery
// needs. Every mutation is a single atomic UPDATE statement so that two
// staff acting on the same user concurrently cannot lose each other's
// writes.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ApplySanction(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	AppendWarning(ctx context.Context, id uuid.UUID, w models.Warning) error
	RemoveWarning(ctx context.Context, id uuid.UUID, index int) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) ApplySanction(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AppendWarning appends to the embedded warnings array with a JSONB
// concatenation, keeping the append a single statement.
func (r *gormUserRepository) AppendWarning(ctx context.Context, id uuid.UUID, w models.Warning) error {
	b, err := json.Marshal([]models.Warning{w})
	if err != nil {
		return fmt.Errorf("failed to marshal warning: %w", err)
	}
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("warnings", gorm.Expr("warnings || ?::jsonb", string(b)))
	if result.Error != nil {
		return fmt.Errorf("failed to append warning: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveWarning deletes the warning at the given array index.
func (r *gormUserRepository) RemoveWarning(ctx context.Context, id uuid.UUID, index int) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("warnings", gorm.Expr("warnings - ?", index))
	if result.Error != nil {
		return fmt.Errorf("failed to remove warning: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *gormUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
