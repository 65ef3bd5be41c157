package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies infrastructure failures surfaced to the transport layer
type ErrorKind string

const (
	KindConfigurationMissing ErrorKind = "CONFIGURATION_MISSING"
	KindDecode               ErrorKind = "DECODE_ERROR"
	KindDataSource           ErrorKind = "DATA_SOURCE_ERROR"
	KindStateStore           ErrorKind = "STATE_STORE_ERROR"
	KindSend                 ErrorKind = "SEND_ERROR"
	KindUnknown              ErrorKind = "UNKNOWN"
)

// Error carries a kind and the operation that failed
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and operation name
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ErrConfigurationMissing is returned when a required setting is absent
func ErrConfigurationMissing(name string) *Error {
	return &Error{Kind: KindConfigurationMissing, Op: name + " is not configured"}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
