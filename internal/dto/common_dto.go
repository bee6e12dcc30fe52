package dto

import "time"

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries the field-level detail map for
// malformed input.
type ValidationErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// AccountStatusResponse is the structured rejection from the account
// gate, so clients can render a specific message instead of a bare 403.
type AccountStatusResponse struct {
	Error          bool       `json:"error"`
	Code           string     `json:"code"`
	Message        string     `json:"message"`
	SuspendedUntil *time.Time `json:"suspended_until,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
