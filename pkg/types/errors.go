package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAuthRequired           = errors.New("authentication required")
	ErrJobNotFound            = errors.New("job not found")
	ErrBidNotFound            = errors.New("bid not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrPendingPaymentNotFound = errors.New("pending payment not found")
	ErrMalformedResponse      = errors.New("malformed backend response")
)

// ValidationError maps each offending field to a user facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// InvalidStateError is returned when an action is not permitted from the
// entity's current status.
type InvalidStateError struct {
	Entity string
	ID     string
	Status string
	Action string
}

func (e *InvalidStateError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("cannot %s %s in status %q", e.Action, e.Entity, e.Status)
	}
	return fmt.Sprintf("cannot %s %s %s in status %q", e.Action, e.Entity, e.ID, e.Status)
}

// TransportError wraps a network failure (StatusCode 0) or a non-2xx
// response from the backend. Message is the backend's detail when it sent one.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %s", e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) NotFound() bool {
	return e.StatusCode == 404
}
