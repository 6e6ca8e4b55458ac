package types

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of the wake pipeline.
// Kinds are errors themselves, so errors.Is(err, ErrNotFound) works on any wrapped *Error.
type Kind uint8

const (
	ErrUnknown Kind = iota
	// ErrInvalidAddress is returned when a literal does not parse for the claimed family
	ErrInvalidAddress
	// ErrInvalidPort is returned for a zero or out of range destination port
	ErrInvalidPort
	// ErrTableUnavailable is returned when the OS neighbor table cannot be read
	ErrTableUnavailable
	// ErrNotFound is returned when no neighbor entry matches the address
	ErrNotFound
	// ErrUnsupported is returned when the platform has no table for the family
	ErrUnsupported
	// ErrSocket is returned when the datagram socket cannot be created
	ErrSocket
	// ErrConfig is returned when broadcast delivery cannot be enabled
	ErrConfig
	// ErrSend is returned when the datagram write does not complete
	ErrSend
)

var kindNames = map[Kind]string{
	ErrUnknown:          "unknown error",
	ErrInvalidAddress:   "invalid address",
	ErrInvalidPort:      "invalid port",
	ErrTableUnavailable: "neighbor table unavailable",
	ErrNotFound:         "neighbor not found",
	ErrUnsupported:      "unsupported",
	ErrSocket:           "socket error",
	ErrConfig:           "socket configuration error",
	ErrSend:             "send error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Error() string {
	return k.String()
}

// Error is a failure of one pipeline stage
type Error struct {
	Kind Kind
	// Op names the failing stage or operation
	Op  string
	Err error
}

// NewError returns an *Error of the given kind
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	// the kind is already part of a wrapped error of the same kind
	var inner *Error
	if e.Err != nil && errors.As(e.Err, &inner) && inner.Kind == e.Kind {
		if e.Op == "" {
			return e.Err.Error()
		}
		return e.Op + ": " + e.Err.Error()
	}

	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error against its Kind
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrUnknown
}

// WithOp re-labels the failing stage while keeping the kind of err.
// Errors without a kind are classified as fallback.
func WithOp(op string, fallback Kind, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Op: op, Err: err}
	}
	return &Error{Kind: fallback, Op: op, Err: err}
}
