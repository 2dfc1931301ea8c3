package relay

import (
	"errors"
	"strings"
)

// ErrNotConfigured means the intake endpoint or one of its entry identifiers
// is missing. End users cannot fix it by editing the form.
var ErrNotConfigured = errors.New("submission system is not configured")

// ValidationError lists user-facing messages, one per problem, in form order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Messages, " ")
}

// TransportError is a failed outbound request. It is safe to resubmit.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return "submission timed out: " + e.Err.Error()
	}
	return "submission failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
