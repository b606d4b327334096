// Package transport implements the two ways a file reaches object storage:
// proxied through the API server as a multipart form, or written directly
// to storage with a presigned URL obtained from the server. Both report
// byte progress and return one Result per attempt.
package transport

import (
	"context"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// ProgressFunc receives the transfer progress of a single file, 0 to 100.
// Implementations never call it with a value lower than one already
// reported for the same attempt.
type ProgressFunc func(percent int)

// FileTransport moves one validated file to object storage.
type FileTransport interface {
	// Upload transfers the file and returns its result. A non-nil error
	// means the attempt failed: a *upload.ValidationError when the file
	// never left the machine, a *upload.TransportError for network or
	// remote failures.
	Upload(ctx context.Context, file upload.CandidateFile, progress ProgressFunc) (*upload.Result, error)
}
