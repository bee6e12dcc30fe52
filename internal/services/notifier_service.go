package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"gorm.io/datatypes"
)

// snapshotMaxChars bounds the content excerpt embedded in notifications.
const snapshotMaxChars = 140

// SanctionEvent describes one sanction for the notifier. Content, when
// present, is the snapshot taken before any deletion, since the target
// may already be gone by delivery time.
type SanctionEvent struct {
	UserID  uuid.UUID
	Action  models.ModAction
	Reason  string
	Until   *time.Time
	Revoked bool
	Content *ContentSnapshot
}

// Notifier is what the sanction and report services call after a
// mutation lands. Implementations must be best-effort and side-effect
// safe: a notifier failure never fails the sanction.
type Notifier interface {
	SanctionIssued(ctx context.Context, ev SanctionEvent)
}

// NotificationPublisher is the queue hand-off; *queue.Publisher
// satisfies it.
type NotificationPublisher interface {
	Publish(ctx context.Context, payload interface{}) error
}

// NotifierService persists sanction notifications and hands them to the
// delivery collaborator. Every failure path logs and returns; callers
// never see an error.
type NotifierService struct {
	repo      NotificationRepository
	publisher NotificationPublisher
	now       func() time.Time
}

// NewNotifierService builds the notifier. publisher may be nil when no
// broker is configured.
func NewNotifierService(repo NotificationRepository, publisher NotificationPublisher) *NotifierService {
	return &NotifierService{repo: repo, publisher: publisher, now: time.Now}
}

func (s *NotifierService) SanctionIssued(ctx context.Context, ev SanctionEvent) {
	notifType, title, message := composeSanctionMessage(ev)
	if notifType == "" {
		return
	}

	data := map[string]interface{}{}
	if ev.Reason != "" {
		data["reason"] = ev.Reason
	}
	if ev.Until != nil {
		data["suspended_until"] = ev.Until.UTC().Format(time.RFC3339)
	}
	if ev.Content != nil {
		data["content_excerpt"] = truncate(ev.Content.Body, snapshotMaxChars)
		if ev.Content.MediaURL != "" {
			data["content_media"] = ev.Content.MediaURL
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("notification payload marshal failed", "user_id", ev.UserID.String(), "error", err)
		return
	}

	notification := models.Notification{
		ID:          uuid.New(),
		RecipientID: ev.UserID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Data:        datatypes.JSON(raw),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		slog.Error("notification write failed",
			"user_id", ev.UserID.String(),
			"type", string(notifType),
			"error", err)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, notification); err != nil {
			slog.Error("notification publish failed",
				"notification_id", notification.ID.String(),
				"error", err)
		}
	}
}

func composeSanctionMessage(ev SanctionEvent) (models.NotificationType, string, string) {
	if ev.Revoked {
		switch ev.Action {
		case models.ActionSuspendUser:
			return models.NotifySanctionRevoked, "Suspension lifted",
				"Your account suspension has been lifted. You have full access again."
		case models.ActionBanUser:
			return models.NotifySanctionRevoked, "Ban lifted",
				"Your account ban has been lifted. You have full access again."
		}
		return "", "", ""
	}

	switch ev.Action {
	case models.ActionWarnUser:
		return models.NotifyWarning, "You have received a warning",
			fmt.Sprintf("A moderator issued a warning on your account. Reason: %s. Repeated violations may lead to suspension or a ban.", ev.Reason)
	case models.ActionSuspendUser:
		until := ""
		if ev.Until != nil {
			until = ev.Until.UTC().Format(time.RFC3339)
		}
		return models.NotifySuspension, "Your account has been suspended",
			fmt.Sprintf("Your account is suspended until %s. Reason: %s.", until, ev.Reason)
	case models.ActionBanUser:
		return models.NotifyBan, "Your account has been banned",
			fmt.Sprintf("Your account has been permanently banned. Reason: %s.", ev.Reason)
	case models.ActionHideContent, models.ActionDeleteContent:
		return models.NotifyContentModerated, "Your content was removed",
			fmt.Sprintf("A piece of your content was removed for violating the community guidelines. Reason: %s.", ev.Reason)
	}
	return "", "", ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
