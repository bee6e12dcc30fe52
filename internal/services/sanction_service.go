package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
	"gorm.io/gorm"
)

// SystemActor stamps mutations the platform applies on its own, such as
// automatic suspensions on escalated reports.
var SystemActor = Actor{ID: uuid.Nil, Role: policy.Role("system")}

// SanctionContext links a sanction to the report that triggered it and
// carries the pre-deletion content snapshot for the notifier. Nil when
// staff sanction a user directly.
type SanctionContext struct {
	RelatedReport *uuid.UUID
	Content       *ContentSnapshot
}

// SanctionService mutates the sanction state embedded on user rows.
// Every mutation is one atomic UPDATE, one audit entry with a
// before/after snapshot of the touched fields, then one best-effort
// notifier call — in that order. The user row keeps no history of its
// own, so the snapshot discipline is what makes changes reconstructable.
type SanctionService struct {
	users    UserRepository
	audit    *AuditService
	notifier Notifier
	now      func() time.Time
}

func NewSanctionService(users UserRepository, audit *AuditService, notifier Notifier) *SanctionService {
	return &SanctionService{users: users, audit: audit, notifier: notifier, now: time.Now}
}

// CheckUserStatus is the pure access gate over an already-loaded user.
func (s *SanctionService) CheckUserStatus(u *models.User) policy.AccountStatus {
	return u.Status(s.now())
}

// Warn appends to the user's warnings list. Warnings do not restrict
// access by themselves.
func (s *SanctionService) Warn(ctx context.Context, actor Actor, userID uuid.UUID, reason string, sc *SanctionContext) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersWarn) {
		return ErrPermissionDenied
	}
	if strings.TrimSpace(reason) == "" {
		return newValidationError("reason", "reason is required for a warning")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	before := user.WarningList()

	warning := models.Warning{Reason: reason, IssuedBy: actor.ID, IssuedAt: s.now()}
	if err := s.users.AppendWarning(ctx, userID, warning); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditUserWarn,
		TargetType: models.TargetUser,
		TargetID:   userID.String(),
		Reason:     reason,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"warning_count": len(before)},
			After:  map[string]any{"warning_count": len(before) + 1, "warning": warning},
		},
		RelatedReport: relatedReport(sc),
	})

	s.notifier.SanctionIssued(ctx, SanctionEvent{
		UserID:  userID,
		Action:  models.ActionWarnUser,
		Reason:  reason,
		Content: content(sc),
	})
	return nil
}

// RevokeWarning removes the warning at the given index. Removal is
// itself an audited action.
func (s *SanctionService) RevokeWarning(ctx context.Context, actor Actor, userID uuid.UUID, index int, reason string) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersWarn) {
		return ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	warnings := user.WarningList()
	if index < 0 || index >= len(warnings) {
		return ErrWarningNotFound
	}

	if err := s.users.RemoveWarning(ctx, userID, index); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditUserUnwarn,
		TargetType: models.TargetUser,
		TargetID:   userID.String(),
		Reason:     reason,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"warning_count": len(warnings), "warning": warnings[index]},
			After:  map[string]any{"warning_count": len(warnings) - 1},
		},
	})
	return nil
}

// Suspend sets suspendedUntil. A later call overwrites any prior
// suspension; there is no stacking. Past end times are rejected.
func (s *SanctionService) Suspend(ctx context.Context, actor Actor, userID uuid.UUID, until time.Time, reason string, sc *SanctionContext) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersSuspend) {
		return ErrPermissionDenied
	}
	return s.suspend(ctx, actor, userID, until, reason, sc, false)
}

// AutoSuspend is the system-triggered variant: same mutation plus an
// auto_suspensions_count increment, attributed to the system actor.
func (s *SanctionService) AutoSuspend(ctx context.Context, userID uuid.UUID, until time.Time, reason string, sc *SanctionContext) error {
	return s.suspend(ctx, SystemActor, userID, until, reason, sc, true)
}

func (s *SanctionService) suspend(ctx context.Context, actor Actor, userID uuid.UUID, until time.Time, reason string, sc *SanctionContext, auto bool) error {
	if strings.TrimSpace(reason) == "" {
		return newValidationError("reason", "reason is required for a suspension")
	}
	if !until.After(s.now()) {
		return ErrPastSuspension
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"suspended_until": until}
	action := models.AuditUserSuspend
	after := map[string]any{"suspended_until": until}
	if auto {
		// Incremented in the UPDATE itself; a concurrent auto-suspension
		// must not lose a count to a stale read. The audit after-value is
		// derived from the earlier read and stays best-effort.
		updates["auto_suspensions_count"] = gorm.Expr("auto_suspensions_count + 1")
		action = models.AuditUserAutoSuspend
		after["auto_suspensions_count"] = user.AutoSuspensionsCount + 1
	}
	if err := s.users.ApplySanction(ctx, userID, updates); err != nil {
		return err
	}

	before := map[string]any{"suspended_until": user.SuspendedUntil}
	if auto {
		before["auto_suspensions_count"] = user.AutoSuspensionsCount
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:         actor,
		Action:        action,
		TargetType:    models.TargetUser,
		TargetID:      userID.String(),
		Reason:        reason,
		Snapshot:      &models.SnapshotPair{Before: before, After: after},
		RelatedReport: relatedReport(sc),
	})

	s.notifier.SanctionIssued(ctx, SanctionEvent{
		UserID:  userID,
		Action:  models.ActionSuspendUser,
		Reason:  reason,
		Until:   &until,
		Content: content(sc),
	})
	return nil
}

// Unsuspend clears suspendedUntil. Independent of ban state: a banned
// user stays blocked by the gate afterwards.
func (s *SanctionService) Unsuspend(ctx context.Context, actor Actor, userID uuid.UUID, reason string) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersSuspend) {
		return ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.ApplySanction(ctx, userID, map[string]interface{}{"suspended_until": nil}); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditUserUnsuspend,
		TargetType: models.TargetUser,
		TargetID:   userID.String(),
		Reason:     reason,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"suspended_until": user.SuspendedUntil},
			After:  map[string]any{"suspended_until": nil},
		},
	})

	s.notifier.SanctionIssued(ctx, SanctionEvent{
		UserID:  userID,
		Action:  models.ActionSuspendUser,
		Reason:  reason,
		Revoked: true,
	})
	return nil
}

// Ban is permanent until an explicit Unban; no timestamp expiry applies.
func (s *SanctionService) Ban(ctx context.Context, actor Actor, userID uuid.UUID, reason string, sc *SanctionContext) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersBan) {
		return ErrPermissionDenied
	}
	if strings.TrimSpace(reason) == "" {
		return newValidationError("reason", "reason is required for a ban")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.BannedAt != nil {
		return ErrAlreadyBanned
	}

	now := s.now()
	if err := s.users.ApplySanction(ctx, userID, map[string]interface{}{
		"banned_at":  now,
		"ban_reason": reason,
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditUserBan,
		TargetType: models.TargetUser,
		TargetID:   userID.String(),
		Reason:     reason,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"banned_at": nil, "ban_reason": user.BanReason},
			After:  map[string]any{"banned_at": now, "ban_reason": reason},
		},
		RelatedReport: relatedReport(sc),
	})

	s.notifier.SanctionIssued(ctx, SanctionEvent{
		UserID:  userID,
		Action:  models.ActionBanUser,
		Reason:  reason,
		Content: content(sc),
	})
	return nil
}

// Unban clears bannedAt and banReason.
func (s *SanctionService) Unban(ctx context.Context, actor Actor, userID uuid.UUID, reason string) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersUnban) {
		return ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.BannedAt == nil {
		return ErrNotBanned
	}

	if err := s.users.ApplySanction(ctx, userID, map[string]interface{}{
		"banned_at":  nil,
		"ban_reason": "",
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditUserUnban,
		TargetType: models.TargetUser,
		TargetID:   userID.String(),
		Reason:     reason,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"banned_at": user.BannedAt, "ban_reason": user.BanReason},
			After:  map[string]any{"banned_at": nil, "ban_reason": ""},
		},
	})

	s.notifier.SanctionIssued(ctx, SanctionEvent{
		UserID:  userID,
		Action:  models.ActionBanUser,
		Reason:  reason,
		Revoked: true,
	})
	return nil
}

// SetSurveillance toggles the non-punitive monitoring flag. It never
// restricts access and sends no notification.
func (s *SanctionService) SetSurveillance(ctx context.Context, actor Actor, userID uuid.UUID, active bool, reason string) error {
	if !policy.HasPermission(actor.Role, policy.PermUsersSurveil) {
		return ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.SurveillanceActive == active {
		return nil
	}

	updates := map[string]interface{}{"surveillance_active": active}
	after := map[string]any{"surveillance_active": active}
	action := models.AuditUserSurveilOff
	if active {
		now := s.now()
		updates["surveillance_added_by"] = actor.ID
		updates["surveillance_added_at"] = now
		after["surveillance_added_by"] = actor.ID
		after["surveillance_added_at"] = now
		action = models.AuditUserSurveilOn
	} else {
		updates["surveillance_added_by"] = nil
		updates["surveillance_added_at"] = nil
	}
	if err := s.users.ApplySanction(ctx, userID, updates); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     action,
		TargetType: models.TargetUser,
		TargetID:   userID.String(),
		Reason:     reason,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"surveillance_active": user.SurveillanceActive},
			After:  after,
		},
	})
	return nil
}

func relatedReport(sc *SanctionContext) *uuid.UUID {
	if sc == nil {
		return nil
	}
	return sc.RelatedReport
}

func content(sc *SanctionContext) *ContentSnapshot {
	if sc == nil {
		return nil
	}
	return sc.Content
}
