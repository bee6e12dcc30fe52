package policy

import "time"

// StatusCode is the machine-readable outcome of the account gate.
type StatusCode string

const (
	StatusAllowed   StatusCode = "ALLOWED"
	StatusBanned    StatusCode = "ACCOUNT_BANNED"
	StatusSuspended StatusCode = "ACCOUNT_SUSPENDED"
)

// AccountStatus is the decision returned by CheckAccount.
type AccountStatus struct {
	Code           StatusCode
	SuspendedUntil *time.Time
}

// Allowed reports whether the account may proceed.
func (s AccountStatus) Allowed() bool {
	return s.Code == StatusAllowed
}

// CheckAccount is the pure access gate run on every authenticated
// request. A ban always wins over a suspension; an expired suspension
// is ignored. No state is touched.
func CheckAccount(bannedAt, suspendedUntil *time.Time, now time.Time) AccountStatus {
	if bannedAt != nil {
		return AccountStatus{Code: StatusBanned}
	}
	if suspendedUntil != nil && suspendedUntil.After(now) {
		return AccountStatus{Code: StatusSuspended, SuspendedUntil: suspendedUntil}
	}
	return AccountStatus{Code: StatusAllowed}
}
