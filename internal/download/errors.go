package download

import (
	"errors"
	"fmt"
)

// Kind classifies download failures.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindIO
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindIO:
		return "io"
	case KindInvalid:
		return "invalid request"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNetwork        = errors.New("download: network error")
	ErrIO             = errors.New("download: io error")
	ErrInvalidRequest = errors.New("download: invalid request")
)

// Error is returned for every failed download.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrIO:
		return e.Kind == KindIO
	case ErrInvalidRequest:
		return e.Kind == KindInvalid
	}
	return false
}

func networkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func ioError(op string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

func invalidError(op string, err error) *Error {
	return &Error{Kind: KindInvalid, Op: op, Err: err}
}
