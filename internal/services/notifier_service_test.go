package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tribefund/moderation-backend/internal/models"
)

type recordingPublisher struct {
	payloads []interface{}
	failErr  error
}

func (p *recordingPublisher) Publish(_ context.Context, payload interface{}) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestNotifierPersistsAndPublishes(t *testing.T) {
	repo := &recordingNotificationRepo{}
	pub := &recordingPublisher{}
	svc := NewNotifierService(repo, pub)
	until := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	svc.SanctionIssued(context.Background(), SanctionEvent{
		UserID: userID,
		Action: models.ActionSuspendUser,
		Reason: "harassment",
		Until:  &until,
	})

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, userID, n.RecipientID)
	assert.Equal(t, models.NotifySuspension, n.Type)
	assert.Contains(t, n.Message, "2026-04-01T00:00:00Z")
	assert.Contains(t, n.Message, "harassment")

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, "2026-04-01T00:00:00Z", data["suspended_until"])

	require.Len(t, pub.payloads, 1)
}

func TestNotifierTruncatesContentExcerpt(t *testing.T) {
	repo := &recordingNotificationRepo{}
	svc := NewNotifierService(repo, nil)
	long := strings.Repeat("a", 500)

	svc.SanctionIssued(context.Background(), SanctionEvent{
		UserID:  uuid.New(),
		Action:  models.ActionDeleteContent,
		Reason:  "guidelines",
		Content: &ContentSnapshot{AuthorID: uuid.New(), Body: long},
	})

	require.Len(t, repo.created, 1)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(repo.created[0].Data, &data))
	excerpt, _ := data["content_excerpt"].(string)
	assert.Equal(t, strings.Repeat("a", 140)+"...", excerpt)
}

func TestNotifierShortBodyKeptWhole(t *testing.T) {
	repo := &recordingNotificationRepo{}
	svc := NewNotifierService(repo, nil)

	svc.SanctionIssued(context.Background(), SanctionEvent{
		UserID:  uuid.New(),
		Action:  models.ActionHideContent,
		Reason:  "guidelines",
		Content: &ContentSnapshot{AuthorID: uuid.New(), Body: "short"},
	})

	require.Len(t, repo.created, 1)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(repo.created[0].Data, &data))
	assert.Equal(t, "short", data["content_excerpt"])
}

func TestNotifierNilPublisher(t *testing.T) {
	repo := &recordingNotificationRepo{}
	svc := NewNotifierService(repo, nil)

	svc.SanctionIssued(context.Background(), SanctionEvent{
		UserID: uuid.New(),
		Action: models.ActionWarnUser,
		Reason: "spam",
	})

	assert.Len(t, repo.created, 1)
}

func TestNotifierSwallowsRepoFailure(t *testing.T) {
	repo := &recordingNotificationRepo{failErr: errors.New("db down")}
	pub := &recordingPublisher{}
	svc := NewNotifierService(repo, pub)

	svc.SanctionIssued(context.Background(), SanctionEvent{
		UserID: uuid.New(),
		Action: models.ActionBanUser,
		Reason: "fraud",
	})

	// Nothing persisted, nothing published, no panic.
	assert.Empty(t, repo.created)
	assert.Empty(t, pub.payloads)
}

func TestNotifierSwallowsPublishFailure(t *testing.T) {
	repo := &recordingNotificationRepo{}
	pub := &recordingPublisher{failErr: errors.New("broker down")}
	svc := NewNotifierService(repo, pub)

	svc.SanctionIssued(context.Background(), SanctionEvent{
		UserID: uuid.New(),
		Action: models.ActionBanUser,
		Reason: "fraud",
	})

	// The notification row survives even when the hand-off fails.
	assert.Len(t, repo.created, 1)
}

func TestNotifierRevocationMessages(t *testing.T) {
	repo := &recordingNotificationRepo{}
	svc := NewNotifierService(repo, nil)
	ctx := context.Background()

	svc.SanctionIssued(ctx, SanctionEvent{UserID: uuid.New(), Action: models.ActionSuspendUser, Revoked: true})
	svc.SanctionIssued(ctx, SanctionEvent{UserID: uuid.New(), Action: models.ActionBanUser, Revoked: true})

	require.Len(t, repo.created, 2)
	assert.Equal(t, models.NotifySanctionRevoked, repo.created[0].Type)
	assert.Contains(t, repo.created[0].Title, "Suspension lifted")
	assert.Contains(t, repo.created[1].Title, "Ban lifted")
}

func TestNotifierIgnoresUnmappedEvents(t *testing.T) {
	repo := &recordingNotificationRepo{}
	svc := NewNotifierService(repo, nil)

	svc.SanctionIssued(context.Background(), SanctionEvent{UserID: uuid.New(), Action: models.ActionNone})
	svc.SanctionIssued(context.Background(), SanctionEvent{UserID: uuid.New(), Action: models.ActionWarnUser, Revoked: true})

	assert.Empty(t, repo.created)
}
