package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRiskScoreFormula(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	in := RiskInput{
		WarningCount:     1,
		ReportsReceived:  2,
		AccountCreatedAt: now.AddDate(-1, 0, 0),
	}
	// 8*1 + 5*2 = 18, no bonuses for an old clean account
	assert.Equal(t, 18, RiskScore(in, now))

	in.Suspended = true
	assert.Equal(t, 28, RiskScore(in, now))

	in.UnderSurveillance = true
	assert.Equal(t, 33, RiskScore(in, now))

	in.AutoSuspensions = 1
	assert.Equal(t, 48, RiskScore(in, now))
}

func TestRiskScoreAgeBonus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := RiskInput{AccountCreatedAt: now.Add(-24 * time.Hour)}
	assert.Equal(t, 10, RiskScore(fresh, now))

	young := RiskInput{AccountCreatedAt: now.AddDate(0, 0, -14)}
	assert.Equal(t, 5, RiskScore(young, now))

	old := RiskInput{AccountCreatedAt: now.AddDate(0, -6, 0)}
	assert.Equal(t, 0, RiskScore(old, now))
}

func TestRiskScoreClamped(t *testing.T) {
	now := time.Now()
	extreme := RiskInput{
		WarningCount:      1000,
		ReportsReceived:   1000,
		Suspended:         true,
		UnderSurveillance: true,
		AccountCreatedAt:  now,
		AutoSuspensions:   1000,
	}
	assert.Equal(t, 100, RiskScore(extreme, now))

	empty := RiskInput{AccountCreatedAt: now.AddDate(-1, 0, 0)}
	assert.Equal(t, 0, RiskScore(empty, now))
}

func TestRiskScoreMonotonic(t *testing.T) {
	now := time.Now()
	base := RiskInput{AccountCreatedAt: now.AddDate(-1, 0, 0)}

	prev := RiskScore(base, now)
	for i := 1; i <= 20; i++ {
		in := base
		in.WarningCount = i
		score := RiskScore(in, now)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}

	prev = RiskScore(base, now)
	for i := 1; i <= 20; i++ {
		in := base
		in.ReportsReceived = i
		score := RiskScore(in, now)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}

	prev = RiskScore(base, now)
	for i := 1; i <= 20; i++ {
		in := base
		in.AutoSuspensions = i
		score := RiskScore(in, now)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}
