package counter

import (
	"errors"
	"fmt"
)

// Kind classifies why an increment failed. Every kind is reported to the
// caller the same way; the distinction exists for logs and tests.
type Kind int

const (
	KindUnknown Kind = iota
	// StoreUnavailable: the store or table does not exist or cannot be reached.
	StoreUnavailable
	// ConfigurationMissing: a required setting such as TABLE_NAME is absent.
	ConfigurationMissing
	// UnexpectedStoreResponse: the store accepted the update but the reply
	// lacks a usable count.
	UnexpectedStoreResponse
)

func (k Kind) String() string {
	switch k {
	case StoreUnavailable:
		return "StoreUnavailable"
	case ConfigurationMissing:
		return "ConfigurationMissing"
	case UnexpectedStoreResponse:
		return "UnexpectedStoreResponse"
	default:
		return "Unknown"
	}
}

// Error carries the Kind of a failure, the operation that failed and its cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Unavailable reports that the store could not be reached or does not exist.
func Unavailable(op string, err error) error {
	return newError(StoreUnavailable, op, err)
}

// Misconfigured reports a missing or unusable setting.
func Misconfigured(op string, err error) error {
	return newError(ConfigurationMissing, op, err)
}

// Unexpected reports a store reply without a usable count.
func Unexpected(op string, err error) error {
	return newError(UnexpectedStoreResponse, op, err)
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
