package policy

import "time"

// RiskInput is the per-user snapshot the risk formula runs over. All
// fields come from an already-loaded user row plus report counts; the
// score itself is never persisted.
type RiskInput struct {
	WarningCount      int
	ReportsReceived   int
	Suspended         bool
	UnderSurveillance bool
	AccountCreatedAt  time.Time
	AutoSuspensions   int
}

// RiskScore computes the 0-100 triage score used to rank the at-risk
// queue. Monotonically non-decreasing in warnings, reports received and
// auto-suspensions.
func RiskScore(in RiskInput, now time.Time) int {
	score := 8*in.WarningCount + 5*in.ReportsReceived + 15*in.AutoSuspensions
	if in.Suspended {
		score += 10
	}
	if in.UnderSurveillance {
		score += 5
	}
	score += ageBonus(in.AccountCreatedAt, now)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Young accounts are riskier: +10 under 7 days, +5 under 30.
func ageBonus(createdAt, now time.Time) int {
	age := now.Sub(createdAt)
	switch {
	case age < 7*24*time.Hour:
		return 10
	case age < 30*24*time.Hour:
		return 5
	default:
		return 0
	}
}
