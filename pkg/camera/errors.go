package camera

import (
	"errors"
	"fmt"
	"strings"
)

// Cause identifies why camera acquisition failed.
type Cause int

const (
	// CauseOther covers acquisition failures with no more specific cause.
	CauseOther Cause = iota

	// CausePermission means access to the device was denied.
	CausePermission

	// CauseMissing means no matching device exists.
	CauseMissing

	// CauseBusy means the device is held by another process.
	CauseBusy
)

// String returns the cause name.
func (c Cause) String() string {
	switch c {
	case CausePermission:
		return "permission_denied"
	case CauseMissing:
		return "device_missing"
	case CauseBusy:
		return "device_busy"
	default:
		return "other"
	}
}

// AcquireError reports a failed camera acquisition.
// Acquisition errors are terminal for the session: the caller announces
// them and does not retry automatically.
type AcquireError struct {
	Cause Cause
	Err   error
}

// Error implements the error interface.
func (e *AcquireError) Error() string {
	return fmt.Sprintf("camera: acquire failed (%s): %v", e.Cause, e.Err)
}

// Unwrap returns the underlying error.
func (e *AcquireError) Unwrap() error {
	return e.Err
}

// UserMessage returns the spoken, user-facing message for this failure.
func (e *AcquireError) UserMessage() string {
	switch e.Cause {
	case CausePermission:
		return "Camera permission denied. Please allow camera access."
	case CauseMissing:
		return "No camera was found on this device."
	case CauseBusy:
		return "The camera is in use by another application."
	default:
		return "The camera could not be started."
	}
}

// CauseOf returns the acquisition cause carried by err,
// or CauseOther when err is not an *AcquireError.
func CauseOf(err error) Cause {
	var ae *AcquireError
	if errors.As(err, &ae) {
		return ae.Cause
	}
	return CauseOther
}

// classify maps an OpenCV open error onto an acquisition cause.
// OpenCV reports failures as free text, so this is a best-effort match.
func classify(err error) Cause {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission") || strings.Contains(msg, "denied"):
		return CausePermission
	case strings.Contains(msg, "busy") || strings.Contains(msg, "in use"):
		return CauseBusy
	case strings.Contains(msg, "cannot open") ||
		strings.Contains(msg, "no such") ||
		strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "not found"):
		return CauseMissing
	default:
		return CauseOther
	}
}
