// Package apierror is the JSON error envelope for every 4xx/5xx answer of the
// JSON endpoints. Driver errors and stack traces never go through it.
package apierror

// APIError is the canonical error body: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}
