package policy

// Reason is the closed set of report reasons.
type Reason string

const (
	ReasonSpam          Reason = "spam"
	ReasonHarassment    Reason = "harassment"
	ReasonInappropriate Reason = "inappropriate_content"
	ReasonFalseInfo     Reason = "false_info"
	ReasonNudity        Reason = "nudity"
	ReasonViolence      Reason = "violence"
	ReasonHate          Reason = "hate"
	ReasonOther         Reason = "other"
)

// Priority is the report triage tier.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var reasonPriorities = map[Reason]Priority{
	ReasonSpam:          PriorityLow,
	ReasonOther:         PriorityLow,
	ReasonFalseInfo:     PriorityMedium,
	ReasonInappropriate: PriorityMedium,
	ReasonNudity:        PriorityHigh,
	ReasonHarassment:    PriorityHigh,
	ReasonViolence:      PriorityCritical,
	ReasonHate:          PriorityCritical,
}

// Number of independent reports against one target needed before the
// report auto-escalates. A single critical report escalates immediately.
var escalationThresholds = map[Priority]int{
	PriorityLow:      5,
	PriorityMedium:   3,
	PriorityHigh:     2,
	PriorityCritical: 1,
}

// ValidReason reports whether r belongs to the closed reason set.
func ValidReason(r Reason) bool {
	_, ok := reasonPriorities[r]
	return ok
}

// PriorityForReason maps a report reason to its initial priority.
// Unknown reasons fall back to low; callers validate with ValidReason first.
func PriorityForReason(r Reason) Priority {
	if p, ok := reasonPriorities[r]; ok {
		return p
	}
	return PriorityLow
}

// EscalationThreshold returns the aggregate report count at which a
// report of the given priority auto-escalates.
func EscalationThreshold(p Priority) int {
	if t, ok := escalationThresholds[p]; ok {
		return t
	}
	return escalationThresholds[PriorityLow]
}

// Escalate raises a priority by one tier, capped at critical.
func Escalate(p Priority) Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityCritical
	}
}
