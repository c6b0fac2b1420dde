package crowdin

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a label or string is absent from the project.
// Recoverable; the caller decides what absence means.
var ErrNotFound = errors.New("not found")

// BackendError is a fatal failure to complete a logical operation against
// the backend (transport, auth, non-2xx after retries). It always names the
// failing operation and preserves the underlying diagnostic.
type BackendError struct {
	Op  string // logical operation, e.g. "get project languages"
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ConfigError reports an invalid configuration state that must not be
// silently worked around (e.g. an empty target-language set).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// backendErr wraps err as a *BackendError unless it already is one for the
// same call chain, so the operation name closest to the failure wins.
func backendErr(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}
