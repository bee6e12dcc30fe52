package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"gorm.io/gorm"
)

// ContentSnapshot is the point-in-time copy of a piece of content taken
// before a moderation action touches it.
type ContentSnapshot struct {
	AuthorID uuid.UUID `json:"author_id"`
	Body     string    `json:"body"`
	MediaURL string    `json:"media_url,omitempty"`
}

// ContentStore is the contract with the content collaborator: fetch a
// post/comment by id, soft-hide it, or hard-delete it. This subsystem
// calls these but does not own the content schema.
type ContentStore interface {
	Fetch(ctx context.Context, tt models.TargetType, id string) (*ContentSnapshot, error)
	Hide(ctx context.Context, tt models.TargetType, id string) error
	Delete(ctx context.Context, tt models.TargetType, id string) error
}

type gormContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) ContentStore {
	return &gormContentStore{db: db}
}

func (s *gormContentStore) Fetch(ctx context.Context, tt models.TargetType, id string) (*ContentSnapshot, error) {
	switch tt {
	case models.TargetPost:
		var post models.Post
		if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
			return nil, translateContentErr(err)
		}
		return &ContentSnapshot{AuthorID: post.AuthorID, Body: post.Body, MediaURL: post.MediaURL}, nil
	case models.TargetComment:
		var comment models.Comment
		if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
			return nil, translateContentErr(err)
		}
		return &ContentSnapshot{AuthorID: comment.AuthorID, Body: comment.Body}, nil
	default:
		return nil, fmt.Errorf("not a content target: %s", tt)
	}
}

func (s *gormContentStore) Hide(ctx context.Context, tt models.TargetType, id string) error {
	result := s.db.WithContext(ctx).Model(contentModel(tt)).Where("id = ?", id).Update("hidden", true)
	if result.Error != nil {
		return fmt.Errorf("failed to hide content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func (s *gormContentStore) Delete(ctx context.Context, tt models.TargetType, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(contentModel(tt))
	if result.Error != nil {
		return fmt.Errorf("failed to delete content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func contentModel(tt models.TargetType) interface{} {
	if tt == models.TargetComment {
		return &models.Comment{}
	}
	return &models.Post{}
}

func translateContentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTargetNotFound
	}
	return fmt.Errorf("failed to load content: %w", err)
}
