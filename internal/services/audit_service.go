package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"gorm.io/datatypes"
)

// AuditService appends entries to the administrative ledger. Writes are
// best-effort: a failed insert is logged and swallowed so that a brief
// audit outage can never block a sanction or a report transition.
type AuditService struct {
	repo AuditRepository
	now  func() time.Time
}

func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// AuditEntry is the input to Record.
type AuditEntry struct {
	Actor         Actor
	Action        models.AuditAction
	TargetType    models.TargetType
	TargetID      string
	Reason        string
	Snapshot      *models.SnapshotPair
	RelatedReport *uuid.UUID
}

// Record writes one ledger entry. The actor's role is copied into the
// row at write time so later role changes never rewrite history.
func (s *AuditService) Record(ctx context.Context, e AuditEntry) {
	entry := models.AuditLog{
		ID:              uuid.New(),
		ActorID:         e.Actor.ID,
		ActorRole:       e.Actor.Role,
		ActorIP:         e.Actor.IP,
		Action:          e.Action,
		TargetType:      e.TargetType,
		TargetID:        e.TargetID,
		Reason:          e.Reason,
		RelatedReportID: e.RelatedReport,
		CreatedAt:       s.now(),
	}

	if e.Snapshot != nil {
		if b, err := json.Marshal(e.Snapshot); err == nil {
			entry.Snapshot = datatypes.JSON(b)
		}
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		slog.Error("audit entry write failed",
			"action", string(e.Action),
			"actor", e.Actor.ID.String(),
			"target_type", string(e.TargetType),
			"target_id", e.TargetID,
			"error", err)
	}
}

// RecordStaffSession is the hook the identity layer calls to land staff
// login/logout events in the same ledger.
func (s *AuditService) RecordStaffSession(ctx context.Context, actor Actor, login bool) {
	action := models.AuditStaffLogout
	if login {
		action = models.AuditStaffLogin
	}
	s.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     action,
		TargetType: models.TargetUser,
		TargetID:   actor.ID.String(),
	})
}

// Trail queries the ledger for the dashboard.
func (s *AuditService) Trail(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, filter)
}
