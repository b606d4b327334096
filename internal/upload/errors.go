package upload

import (
	"errors"
	"fmt"
)

// ErrConfigIncomplete is returned when the intermediary service is missing
// storage or notification settings. It is not user-correctable; handlers
// log the missing variable names and surface only a generic message.
var ErrConfigIncomplete = errors.New("server configuration incomplete")

// ValidationError is a client-correctable rejection produced by the policy
// before any network transfer.
type ValidationError struct {
	Reason RejectReason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmptyFile:
		return "empty files cannot be uploaded"
	case ReasonTooLarge:
		return "file exceeds the 5MB size limit"
	case ReasonBadExtension:
		return fmt.Sprintf("file type is not allowed (allowed: %v)", AllowedExtensions)
	}
	return "file was rejected"
}

// NewValidationError converts a failed Validation into an error. It panics
// on an accepted result, which would be a programming error.
func NewValidationError(v Validation) *ValidationError {
	if v.Accepted {
		panic("upload: validation error from accepted result")
	}
	return &ValidationError{Reason: v.Reason}
}

// TransportError is a network-level failure: either the remote could not be
// reached at all (StatusCode == 0, Err set) or it answered outside 2xx.
type TransportError struct {
	// Op names the leg that failed, e.g. "upload", "presign", "put".
	Op string
	// StatusCode is the HTTP status when the remote answered, 0 otherwise.
	StatusCode int
	// Status is the HTTP status text when available.
	Status string
	// Err is the underlying error for unreachable-service failures.
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: could not reach service: %v", e.Op, e.Err)
	case e.Err != nil:
		// The remote answered with a message meant for the user.
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: service rejected request: %s", e.Op, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
