package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrCode is a tagged classification of a storage-level failure. The store
// classifies errors itself so that handlers never have to inspect SDK
// error strings.
type ErrCode string

const (
	ErrBucketNotFound    ErrCode = "bucket_not_found"
	ErrAccessDenied      ErrCode = "access_denied"
	ErrInvalidBucketName ErrCode = "invalid_bucket_name"
	ErrObjectNotFound    ErrCode = "object_not_found"
	ErrUnknown           ErrCode = "unknown"
)

// Error wraps an underlying SDK error with its classification.
type Error struct {
	Code ErrCode
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage maps the classification to the message shown to callers.
// SDK details never leak through here.
func (e *Error) UserMessage() string {
	switch e.Code {
	case ErrBucketNotFound:
		return "storage bucket not found"
	case ErrAccessDenied:
		return "storage access denied"
	case ErrInvalidBucketName:
		return "storage bucket name is invalid"
	case ErrObjectNotFound:
		return "stored file not found"
	}
	return "file storage operation failed"
}

// Classify wraps err in a tagged *Error. It prefers the structured API
// error code exposed by smithy; matching on the message text is the
// fallback for errors the SDK leaves unstructured, and lives only here.
func Classify(err error) *Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return &Error{Code: ErrBucketNotFound, Err: err}
		case "AccessDenied":
			return &Error{Code: ErrAccessDenied, Err: err}
		case "InvalidBucketName":
			return &Error{Code: ErrInvalidBucketName, Err: err}
		case "NoSuchKey", "NotFound":
			return &Error{Code: ErrObjectNotFound, Err: err}
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchBucket"):
		return &Error{Code: ErrBucketNotFound, Err: err}
	case strings.Contains(msg, "AccessDenied"):
		return &Error{Code: ErrAccessDenied, Err: err}
	case strings.Contains(msg, "InvalidBucketName"):
		return &Error{Code: ErrInvalidBucketName, Err: err}
	case strings.Contains(msg, "NoSuchKey"), strings.Contains(msg, "NotFound"):
		return &Error{Code: ErrObjectNotFound, Err: err}
	}
	return &Error{Code: ErrUnknown, Err: err}
}
