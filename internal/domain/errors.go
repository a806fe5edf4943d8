package domain

import (
	"errors"
	"fmt"
)

// FailureKind enumerates how a pipeline failure is handled.
type FailureKind string

const (
	ParseFailure         FailureKind = "parse"
	StoreFailure         FailureKind = "store"
	NotificationFailure  FailureKind = "notification"
	ConfigurationFailure FailureKind = "configuration"
)

var (
	ErrMissingField   = errors.New("missing mandatory field")
	ErrInvalidKickoff = errors.New("kickoff time does not match HH:MM")
	ErrInvalidDate    = errors.New("unrecognized date")
)

// Error carries the failure kind plus the offending raw value.
type Error struct {
	Kind  FailureKind
	Op    string
	Value string
	Err   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failure in %s", e.Kind, e.Op)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed failure.
func NewError(kind FailureKind, op, value string, err error) *Error {
	return &Error{Kind: kind, Op: op, Value: value, Err: err}
}

// IsKind reports whether err carries a failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind == kind
	}
	return false
}
