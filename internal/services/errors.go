package services

import "errors"

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTargetNotFound    = errors.New("target not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrSelfReport        = errors.New("cannot report yourself")
	ErrAlreadyBanned     = errors.New("user is already banned")
	ErrNotBanned         = errors.New("user is not banned")
	ErrPastSuspension    = errors.New("suspension end must be in the future")
	ErrWarningNotFound   = errors.New("warning not found")
)

// ValidationError carries a field-level detail map for malformed input,
// rejected before any mutation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError(field, detail string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: detail}}
}
