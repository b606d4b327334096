// Package logging defines the minimal structured-logging interface used
// across the service and the client. The only implementation wraps slog;
// keeping the interface small makes handlers and transports testable with
// a buffer-backed logger.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key/value pairs:
//
//	log.Info(ctx, "upload stored", "key", key, "size", size)
type Logger interface {
	// Debug logs verbose diagnostic output.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions, e.g. a MIME type that
	// does not match an accepted extension.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given
	// key/value pairs.
	With(args ...any) Logger
}
