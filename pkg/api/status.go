package api

import (
	"fmt"

	"github.com/knowdesk/pagekit/internal/errors"
)

// StatusError is returned for non-2xx responses. Message holds the
// server's "error" field when present.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap exposes the coded form so errors.CodeOf reports A002.
func (e *StatusError) Unwrap() error {
	return errors.New(errors.CodeAPIStatus).WithDetail("HTTP %d", e.StatusCode)
}
