// Package apierror defines the JSON error envelopes the HTTP layer returns.
// Every 4xx/5xx body is one of the two shapes below, so clients never see a
// raw driver or ORM error and internals stay out of responses.
package apierror

// APIError is the single-message envelope: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

// New wraps a client-safe message in the plain envelope.
func New(msg string) *APIError { return &APIError{Detail: msg} }

// ValidationError carries one message per offending field, keyed by the json
// name the client actually sent.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

// NewValidation wraps field violations under a fixed detail line.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}
