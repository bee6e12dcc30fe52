package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
	"gorm.io/gorm"
)

// autoSuspendDuration is the hold applied when escalation pushes a
// user-targeted report to critical.
const autoSuspendDuration = 24 * time.Hour

// ReportService owns the report store: intake with dedup, synchronous
// escalation, assignment and the lifecycle state machine.
type ReportService struct {
	reports           ReportRepository
	users             UserRepository
	content           ContentStore
	sanctions         *SanctionService
	audit             *AuditService
	notifier          Notifier
	defaultSuspension time.Duration
	now               func() time.Time
}

func NewReportService(
	reports ReportRepository,
	users UserRepository,
	content ContentStore,
	sanctions *SanctionService,
	audit *AuditService,
	notifier Notifier,
	defaultSuspension time.Duration,
) *ReportService {
	return &ReportService{
		reports:           reports,
		users:             users,
		content:           content,
		sanctions:         sanctions,
		audit:             audit,
		notifier:          notifier,
		defaultSuspension: defaultSuspension,
		now:               time.Now,
	}
}

// CreateOrAggregate records a signal against a target. One row exists
// per (reporter, target); a repeat report from the same reporter bumps
// the existing row's aggregate count instead of inserting. New reports
// re-run the escalation check for the target. Reports against deleted
// targets are accepted; moderation history outlives the content.
func (s *ReportService) CreateOrAggregate(ctx context.Context, reporter uuid.UUID, tt models.TargetType, targetID string, reason policy.Reason, details string) (*models.Report, error) {
	if !models.ValidTargetType(tt) {
		return nil, newValidationError("target_type", "must be post, comment, or user")
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, newValidationError("target_id", "target_id is required")
	}
	if !policy.ValidReason(reason) {
		return nil, newValidationError("reason", "unknown report reason")
	}
	if tt == models.TargetUser && targetID == reporter.String() {
		return nil, ErrSelfReport
	}

	existing, err := s.reports.FindByReporterAndTarget(ctx, reporter, tt, targetID)
	if err == nil {
		// Duplicate from the same reporter: absorbed, never surfaced as
		// a conflict.
		if err := s.reports.IncrementAggregate(ctx, existing.ID); err != nil {
			return nil, err
		}
		return s.reports.FindByID(ctx, existing.ID)
	}
	if !errors.Is(err, ErrReportNotFound) {
		return nil, err
	}

	report := &models.Report{
		ID:         uuid.New(),
		ReporterID: reporter,
		TargetType: tt,
		TargetID:   targetID,
		Reason:     reason,
		Details:    details,
		Priority:   policy.PriorityForReason(reason),
		Status:     models.ReportPending,
		Action:     models.ActionNone,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race against ourselves; fold into the row
			// that won.
			winner, ferr := s.reports.FindByReporterAndTarget(ctx, reporter, tt, targetID)
			if ferr != nil {
				return nil, ferr
			}
			if ierr := s.reports.IncrementAggregate(ctx, winner.ID); ierr != nil {
				return nil, ierr
			}
			return s.reports.FindByID(ctx, winner.ID)
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.maybeEscalate(ctx, report); err != nil {
		return nil, err
	}
	return s.reports.FindByID(ctx, report.ID)
}

// maybeEscalate runs the threshold check for a freshly inserted report.
// The count is read once; a near-simultaneous report may under-count by
// one until the next insert re-triggers the check.
func (s *ReportService) maybeEscalate(ctx context.Context, report *models.Report) error {
	count, err := s.reports.CountForTarget(ctx, report.TargetType, report.TargetID)
	if err != nil {
		return err
	}
	if count < int64(policy.EscalationThreshold(report.Priority)) || report.Escalated() {
		return nil
	}

	raised := policy.Escalate(report.Priority)
	fired, err := s.reports.MarkEscalated(ctx, report.ID,
		models.EscalatedBySystem,
		fmt.Sprintf("report volume reached threshold (%d reports)", count),
		raised, s.now())
	if err != nil {
		return err
	}
	if !fired {
		return nil
	}

	slog.Info("report auto-escalated",
		"report_id", report.ID.String(),
		"target_type", string(report.TargetType),
		"target_id", report.TargetID,
		"priority", string(raised))

	// Critical escalation against a person puts the account on hold
	// pending review. Best-effort: intake never fails because of it.
	if raised == policy.PriorityCritical && report.TargetType == models.TargetUser {
		if userID, perr := uuid.Parse(report.TargetID); perr == nil {
			reportID := report.ID
			err := s.sanctions.AutoSuspend(ctx, userID, s.now().Add(autoSuspendDuration),
				"automatic hold pending review of escalated reports",
				&SanctionContext{RelatedReport: &reportID})
			if err != nil && !errors.Is(err, ErrPastSuspension) {
				slog.Error("auto-suspension on escalation failed",
					"report_id", report.ID.String(),
					"user_id", report.TargetID,
					"error", err)
			}
		}
	}
	return nil
}

// Assign hands a report to a staff member.
func (s *ReportService) Assign(ctx context.Context, actor Actor, reportID, staffID uuid.UUID) (*models.Report, error) {
	if !policy.HasPermission(actor.Role, policy.PermReportsProcess) {
		return nil, ErrPermissionDenied
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	if err := s.reports.Assign(ctx, reportID, staffID, s.now()); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:         actor,
		Action:        models.AuditReportAssign,
		TargetType:    report.TargetType,
		TargetID:      report.TargetID,
		RelatedReport: &report.ID,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"assigned_to": report.AssignedTo},
			After:  map[string]any{"assigned_to": staffID},
		},
	})
	return s.reports.FindByID(ctx, reportID)
}

// Escalate is the manual staff escalation with a recorded reason.
// Re-escalating an already escalated report is rejected.
func (s *ReportService) Escalate(ctx context.Context, actor Actor, reportID uuid.UUID, reason string) (*models.Report, error) {
	if !policy.HasPermission(actor.Role, policy.PermReportsProcess) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(reason) == "" {
		return nil, newValidationError("reason", "escalation reason is required")
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status.Terminal() || report.Escalated() {
		return nil, ErrInvalidTransition
	}

	raised := policy.Escalate(report.Priority)
	fired, err := s.reports.MarkEscalated(ctx, reportID, actor.ID.String(), reason, raised, s.now())
	if err != nil {
		return nil, err
	}
	if !fired {
		return nil, ErrInvalidTransition
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:         actor,
		Action:        models.AuditReportEscalate,
		TargetType:    report.TargetType,
		TargetID:      report.TargetID,
		Reason:        reason,
		RelatedReport: &report.ID,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"priority": report.Priority, "escalated_at": nil},
			After:  map[string]any{"priority": raised, "escalated_at": s.now()},
		},
	})
	return s.reports.FindByID(ctx, reportID)
}

// Process drives the lifecycle state machine. Terminal reports never
// move again; resubmissions are rejected with the state left untouched.
// An action_taken transition applies the moderation action, links the
// audit entry to this report and notifies the sanctioned user.
func (s *ReportService) Process(ctx context.Context, actor Actor, reportID uuid.UUID, newStatus models.ReportStatus, action models.ModAction, reason string, until *time.Time) (*models.Report, error) {
	if !policy.HasPermission(actor.Role, policy.PermReportsProcess) {
		return nil, ErrPermissionDenied
	}
	if action == "" {
		action = models.ActionNone
	}
	if !models.ValidModAction(action) {
		return nil, newValidationError("action", "unknown moderation action")
	}
	switch newStatus {
	case models.ReportReviewed, models.ReportDismissed:
		if action != models.ActionNone {
			return nil, newValidationError("action", "only an action_taken transition may carry an action")
		}
	case models.ReportActionTaken:
		if action == models.ActionNone {
			return nil, newValidationError("action", "an action_taken transition requires an action")
		}
	default:
		return nil, newValidationError("status", "must be reviewed, action_taken, or dismissed")
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.Status.CanTransition(newStatus) {
		return nil, ErrInvalidTransition
	}

	// Resolve the sanction target and snapshot the content before
	// anything is hidden or deleted.
	var sanctionTarget uuid.UUID
	var snapshot *ContentSnapshot
	if newStatus == models.ReportActionTaken {
		sanctionTarget, snapshot, err = s.resolveActionTarget(ctx, report, action)
		if err != nil {
			return nil, err
		}
		// Sanction preconditions are checked before the transition is
		// claimed so a rejection leaves the report untouched.
		switch action {
		case models.ActionBanUser:
			user, uerr := s.users.FindByID(ctx, sanctionTarget)
			if uerr != nil {
				return nil, uerr
			}
			if user.BannedAt != nil {
				return nil, ErrAlreadyBanned
			}
		case models.ActionSuspendUser:
			if until != nil && !until.After(s.now()) {
				return nil, ErrPastSuspension
			}
		}
	}

	now := s.now()
	// Claim the transition first; the status guard makes concurrent
	// processors lose cleanly instead of double-applying sanctions.
	ok, err := s.reports.Transition(ctx, reportID, report.Status, map[string]interface{}{
		"status":       newStatus,
		"action":       action,
		"moderated_by": actor.ID,
		"moderated_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if newStatus == models.ReportActionTaken {
		if err := s.applyAction(ctx, actor, report, action, reason, until, sanctionTarget, snapshot); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:         actor,
		Action:        auditActionForStatus(newStatus),
		TargetType:    report.TargetType,
		TargetID:      report.TargetID,
		Reason:        reason,
		RelatedReport: &report.ID,
		Snapshot: &models.SnapshotPair{
			Before: map[string]any{"status": report.Status, "action": report.Action},
			After:  map[string]any{"status": newStatus, "action": action},
		},
	})
	return s.reports.FindByID(ctx, reportID)
}

// resolveActionTarget validates that the action can run against the
// report's target and returns the user to sanction plus the content
// snapshot. Content that no longer exists is a state error for every
// action that needs it.
func (s *ReportService) resolveActionTarget(ctx context.Context, report *models.Report, action models.ModAction) (uuid.UUID, *ContentSnapshot, error) {
	if report.TargetType == models.TargetUser {
		if action == models.ActionHideContent || action == models.ActionDeleteContent {
			return uuid.Nil, nil, newValidationError("action", "content actions cannot target a user report")
		}
		userID, err := uuid.Parse(report.TargetID)
		if err != nil {
			return uuid.Nil, nil, newValidationError("target_id", "target is not a valid user id")
		}
		return userID, nil, nil
	}

	snapshot, err := s.content.Fetch(ctx, report.TargetType, report.TargetID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return snapshot.AuthorID, snapshot, nil
}

func (s *ReportService) applyAction(ctx context.Context, actor Actor, report *models.Report, action models.ModAction, reason string, until *time.Time, target uuid.UUID, snapshot *ContentSnapshot) error {
	sc := &SanctionContext{RelatedReport: &report.ID, Content: snapshot}

	switch action {
	case models.ActionHideContent:
		if err := s.content.Hide(ctx, report.TargetType, report.TargetID); err != nil {
			return err
		}
		s.recordContentAction(ctx, actor, report, models.AuditContentHide, reason, snapshot)
	case models.ActionDeleteContent:
		if err := s.content.Delete(ctx, report.TargetType, report.TargetID); err != nil {
			return err
		}
		s.recordContentAction(ctx, actor, report, models.AuditContentDelete, reason, snapshot)
		s.notifier.SanctionIssued(ctx, SanctionEvent{
			UserID:  target,
			Action:  action,
			Reason:  reason,
			Content: snapshot,
		})
	case models.ActionWarnUser:
		return s.sanctions.Warn(ctx, actor, target, reason, sc)
	case models.ActionSuspendUser:
		end := s.now().Add(s.defaultSuspension)
		if until != nil {
			end = *until
		}
		return s.sanctions.Suspend(ctx, actor, target, end, reason, sc)
	case models.ActionBanUser:
		return s.sanctions.Ban(ctx, actor, target, reason, sc)
	}
	return nil
}

func (s *ReportService) recordContentAction(ctx context.Context, actor Actor, report *models.Report, action models.AuditAction, reason string, snapshot *ContentSnapshot) {
	var before map[string]any
	if snapshot != nil {
		before = map[string]any{
			"author_id": snapshot.AuthorID,
			"body":      truncate(snapshot.Body, snapshotMaxChars),
			"media_url": snapshot.MediaURL,
		}
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:         actor,
		Action:        action,
		TargetType:    report.TargetType,
		TargetID:      report.TargetID,
		Reason:        reason,
		RelatedReport: &report.ID,
		Snapshot:      &models.SnapshotPair{Before: before},
	})
}

func auditActionForStatus(status models.ReportStatus) models.AuditAction {
	switch status {
	case models.ReportReviewed:
		return models.AuditReportReview
	case models.ReportDismissed:
		return models.AuditReportDismiss
	default:
		return models.AuditReportAction
	}
}

// Get loads one report for staff.
func (s *ReportService) Get(ctx context.Context, actor Actor, reportID uuid.UUID) (*models.Report, error) {
	if !policy.HasPermission(actor.Role, policy.PermReportsView) {
		return nil, ErrPermissionDenied
	}
	return s.reports.FindByID(ctx, reportID)
}

// List pages through the moderation queue.
func (s *ReportService) List(ctx context.Context, actor Actor, filter ReportFilter) ([]models.Report, int64, error) {
	if !policy.HasPermission(actor.Role, policy.PermReportsView) {
		return nil, 0, ErrPermissionDenied
	}
	return s.reports.List(ctx, filter)
}
