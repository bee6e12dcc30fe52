package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportStatusTransitions(t *testing.T) {
	all := []ReportStatus{ReportPending, ReportReviewed, ReportActionTaken, ReportDismissed}

	allowed := map[ReportStatus]map[ReportStatus]bool{
		ReportPending:  {ReportReviewed: true, ReportActionTaken: true, ReportDismissed: true},
		ReportReviewed: {ReportActionTaken: true, ReportDismissed: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestReportStatusTerminal(t *testing.T) {
	assert.False(t, ReportPending.Terminal())
	assert.False(t, ReportReviewed.Terminal())
	assert.True(t, ReportActionTaken.Terminal())
	assert.True(t, ReportDismissed.Terminal())
}

func TestValidModAction(t *testing.T) {
	for _, a := range []ModAction{ActionNone, ActionHideContent, ActionDeleteContent, ActionWarnUser, ActionSuspendUser, ActionBanUser} {
		assert.True(t, ValidModAction(a))
	}
	assert.False(t, ValidModAction("shadowban"))
}

func TestModActionTargetsUser(t *testing.T) {
	assert.True(t, ActionWarnUser.TargetsUser())
	assert.True(t, ActionSuspendUser.TargetsUser())
	assert.True(t, ActionBanUser.TargetsUser())
	assert.False(t, ActionHideContent.TargetsUser())
	assert.False(t, ActionNone.TargetsUser())
}
