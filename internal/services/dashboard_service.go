package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
)

// AtRiskUser pairs a user with their derived triage score. The score is
// computed on the read path and never stored.
type AtRiskUser struct {
	User            models.User `json:"user"`
	RiskScore       int         `json:"risk_score"`
	ReportsReceived int64       `json:"reports_received"`
}

// DashboardService serves staff read paths: the at-risk queue and the
// audit trail. It mutates nothing.
type DashboardService struct {
	users   UserRepository
	reports ReportRepository
	audit   *AuditService
	now     func() time.Time
}

func NewDashboardService(users UserRepository, reports ReportRepository, audit *AuditService) *DashboardService {
	return &DashboardService{users: users, reports: reports, audit: audit, now: time.Now}
}

// AtRiskUsers assembles the risk input per user, scores it and returns
// the page ordered by score, highest first. minScore filters noise out
// of the queue; total counts all users, not just those above minScore.
// Report counts for the page come from one grouped query.
func (s *DashboardService) AtRiskUsers(ctx context.Context, actor Actor, minScore, limit, offset int) ([]AtRiskUser, int64, error) {
	if !policy.HasPermission(actor.Role, policy.PermDashboardView) {
		return nil, 0, ErrPermissionDenied
	}

	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	received, err := s.reports.CountByUserTargets(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	ranked := make([]AtRiskUser, 0, len(users))
	for _, u := range users {
		score := policy.RiskScore(policy.RiskInput{
			WarningCount:    len(u.WarningList()),
			ReportsReceived: int(received[u.ID]),
			// Suspension counts while suspendedUntil is in the future,
			// whether or not the account is also banned.
			Suspended:         u.SuspendedUntil != nil && u.SuspendedUntil.After(now),
			UnderSurveillance: u.SurveillanceActive,
			AccountCreatedAt:  u.CreatedAt,
			AutoSuspensions:   u.AutoSuspensionsCount,
		}, now)
		if score < minScore {
			continue
		}
		ranked = append(ranked, AtRiskUser{User: u, RiskScore: score, ReportsReceived: received[u.ID]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RiskScore > ranked[j].RiskScore
	})
	return ranked, total, nil
}

// AuditTrail exposes the ledger to staff with the audit:view capability.
func (s *DashboardService) AuditTrail(ctx context.Context, actor Actor, filter AuditFilter) ([]models.AuditLog, int64, error) {
	if !policy.HasPermission(actor.Role, policy.PermAuditView) {
		return nil, 0, ErrPermissionDenied
	}
	return s.audit.Trail(ctx, filter)
}
