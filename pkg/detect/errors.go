package detect

import (
	"errors"
	"fmt"
)

// ErrNoBaseURL is returned when the client is built without an endpoint.
var ErrNoBaseURL = errors.New("detect: endpoint URL required")

// FailureKind classifies a failed detection request.
type FailureKind int

const (
	// KindNone means the error is not a classified detection failure.
	KindNone FailureKind = iota

	// KindTimeout means the bounded wait elapsed and the request was
	// actively cancelled.
	KindTimeout

	// KindTransport covers non-2xx responses and network failures.
	KindTransport

	// KindFormat means the endpoint answered 2xx with a body that is not
	// an ordered sequence of detections.
	KindFormat
)

// String returns the kind's status label.
func (k FailureKind) String() string {
	switch k {
	case KindTimeout:
		return "detection timeout"
	case KindTransport:
		return "detection transport error"
	case KindFormat:
		return "invalid detection format"
	default:
		return "none"
	}
}

// Error reports a failed detection request with its classification.
type Error struct {
	Kind FailureKind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("detect: %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or KindNone.
func KindOf(err error) FailureKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindNone
}
