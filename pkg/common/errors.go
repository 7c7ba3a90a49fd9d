package common

import "errors"

var (
	ErrInputNotFound          = errors.New("input image not found")
	ErrAcceleratedUnavailable = errors.New("accelerated strategy unavailable")
	ErrUnexpectedFailure      = errors.New("unexpected failure")
)

type ErrorKind string

const (
	KindInputNotFound          ErrorKind = "InputNotFound"
	KindAcceleratedUnavailable ErrorKind = "AcceleratedUnavailable"
	KindUnexpectedFailure      ErrorKind = "UnexpectedFailure"
)

// KindOf classifies err. Anything that is not a known kind is an unexpected failure.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInputNotFound):
		return KindInputNotFound
	case errors.Is(err, ErrAcceleratedUnavailable):
		return KindAcceleratedUnavailable
	default:
		return KindUnexpectedFailure
	}
}
