package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allReasons = []Reason{
	ReasonSpam, ReasonHarassment, ReasonInappropriate, ReasonFalseInfo,
	ReasonNudity, ReasonViolence, ReasonHate, ReasonOther,
}

func TestPriorityForReason(t *testing.T) {
	cases := map[Reason]Priority{
		ReasonSpam:          PriorityLow,
		ReasonOther:         PriorityLow,
		ReasonFalseInfo:     PriorityMedium,
		ReasonInappropriate: PriorityMedium,
		ReasonNudity:        PriorityHigh,
		ReasonHarassment:    PriorityHigh,
		ReasonViolence:      PriorityCritical,
		ReasonHate:          PriorityCritical,
	}
	for reason, want := range cases {
		assert.Equal(t, want, PriorityForReason(reason), "reason %s", reason)
	}
}

func TestPriorityForReasonTotalAndStable(t *testing.T) {
	valid := map[Priority]bool{
		PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
	}
	for _, r := range allReasons {
		first := PriorityForReason(r)
		assert.True(t, valid[first], "reason %s returned %s", r, first)
		assert.Equal(t, first, PriorityForReason(r), "second call differs for %s", r)
	}
}

func TestValidReason(t *testing.T) {
	for _, r := range allReasons {
		assert.True(t, ValidReason(r))
	}
	assert.False(t, ValidReason("road_rage"))
	assert.False(t, ValidReason(""))
}

func TestEscalationThreshold(t *testing.T) {
	assert.Equal(t, 5, EscalationThreshold(PriorityLow))
	assert.Equal(t, 3, EscalationThreshold(PriorityMedium))
	assert.Equal(t, 2, EscalationThreshold(PriorityHigh))
	assert.Equal(t, 1, EscalationThreshold(PriorityCritical))
}

func TestEscalate(t *testing.T) {
	assert.Equal(t, PriorityMedium, Escalate(PriorityLow))
	assert.Equal(t, PriorityHigh, Escalate(PriorityMedium))
	assert.Equal(t, PriorityCritical, Escalate(PriorityHigh))
	assert.Equal(t, PriorityCritical, Escalate(PriorityCritical))
}
