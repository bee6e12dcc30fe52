package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
)

func TestAtRiskUsersRankedByScore(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	clean := testUser(policy.RoleUser)
	clean.CreatedAt = now.AddDate(-1, 0, 0)

	risky := testUser(policy.RoleUser)
	risky.CreatedAt = now.AddDate(-1, 0, 0)
	risky.SurveillanceActive = true
	risky.AutoSuspensionsCount = 2

	users := newFakeUserRepo(clean, risky)
	reports := newFakeReportRepo()
	auditSvc := NewAuditService(&recordingAuditRepo{})

	// Three open reports against the risky account.
	for i := 0; i < 3; i++ {
		require.NoError(t, reports.Create(context.Background(), &models.Report{
			ID:         uuid.New(),
			ReporterID: uuid.New(),
			TargetType: models.TargetUser,
			TargetID:   risky.ID.String(),
			Reason:     policy.ReasonSpam,
			Priority:   policy.PriorityLow,
			Status:     models.ReportPending,
			Action:     models.ActionNone,
		}))
	}

	svc := NewDashboardService(users, reports, auditSvc)
	svc.now = func() time.Time { return now }

	ranked, total, err := svc.AtRiskUsers(context.Background(), moderator(), 1, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Only the risky account clears minScore; 5*3 + 5 + 15*2 = 50.
	require.Len(t, ranked, 1)
	assert.Equal(t, risky.ID, ranked[0].User.ID)
	assert.Equal(t, 50, ranked[0].RiskScore)
	assert.Equal(t, int64(3), ranked[0].ReportsReceived)
}

func TestAtRiskUsersBannedUserKeepsSuspensionTerm(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	user := testUser(policy.RoleUser)
	user.CreatedAt = now.AddDate(-1, 0, 0)
	bannedAt := now.Add(-time.Hour)
	until := now.Add(48 * time.Hour)
	user.BannedAt = &bannedAt
	user.SuspendedUntil = &until

	svc := NewDashboardService(newFakeUserRepo(user), newFakeReportRepo(), NewAuditService(&recordingAuditRepo{}))
	svc.now = func() time.Time { return now }

	ranked, _, err := svc.AtRiskUsers(context.Background(), moderator(), 1, 50, 0)
	require.NoError(t, err)

	// The active suspension scores +10 even though the ban hides it from
	// the access gate.
	require.Len(t, ranked, 1)
	assert.Equal(t, 10, ranked[0].RiskScore)
}

func TestAtRiskUsersPermission(t *testing.T) {
	svc := NewDashboardService(newFakeUserRepo(), newFakeReportRepo(), NewAuditService(&recordingAuditRepo{}))

	_, _, err := svc.AtRiskUsers(context.Background(), Actor{ID: uuid.New(), Role: policy.RoleUser}, 0, 50, 0)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAuditTrailRequiresAdmin(t *testing.T) {
	auditRepo := &recordingAuditRepo{}
	auditSvc := NewAuditService(auditRepo)
	svc := NewDashboardService(newFakeUserRepo(), newFakeReportRepo(), auditSvc)

	actor := admin()
	auditSvc.RecordStaffSession(context.Background(), actor, true)

	_, _, err := svc.AuditTrail(context.Background(), moderator(), AuditFilter{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	entries, total, err := svc.AuditTrail(context.Background(), actor, AuditFilter{Action: models.AuditStaffLogin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, actor.ID, entries[0].ActorID)
	assert.Equal(t, actor.ID.String(), entries[0].TargetID)
}
