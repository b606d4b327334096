// Package handler implements the HTTP API of the intermediary service:
// the server-proxied upload endpoint, the presigned-URL endpoint, and the
// contact inquiry endpoints.
package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/CHJCOCO/ryuin/internal/logging"
	"github.com/CHJCOCO/ryuin/internal/server/metrics"
	"github.com/CHJCOCO/ryuin/internal/server/notify"
	"github.com/CHJCOCO/ryuin/internal/server/ratelimit"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// ObjectStore is what the upload endpoints need from object storage.
type ObjectStore interface {
	NewKey(fileName string) string
	PresignExpiry() time.Duration
	PublicURL(key string) string
	Put(ctx context.Context, f upload.CandidateFile, key string) error
	PresignPut(ctx context.Context, key, contentType, fileName string, size int64) (string, error)
}

// Notifier forwards inquiries to the external notification service.
type Notifier interface {
	Complete() bool
	Send(ctx context.Context, inq notify.Inquiry, clientIP string) (string, error)
}

// configErrorMessage is all a client ever learns about a server-side
// configuration problem; the specifics go to the log.
const configErrorMessage = "server configuration error, please contact the administrator"

// Handler carries the dependencies of every endpoint. store may be nil
// when storage settings are missing at startup; the endpoints then answer
// with a configuration error instead of refusing to boot, so the rest of
// the site keeps working.
type Handler struct {
	store    ObjectStore
	notifier Notifier
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	log      logging.Logger

	allowedOrigins map[string]struct{}
}

type Options struct {
	Store          ObjectStore
	Notifier       Notifier
	Limiter        *ratelimit.Limiter
	Metrics        *metrics.Metrics
	Logger         logging.Logger
	AllowedOrigins []string
}

func New(opts Options) *Handler {
	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{
		store:          opts.Store,
		notifier:       opts.Notifier,
		limiter:        opts.Limiter,
		metrics:        opts.Metrics,
		log:            opts.Logger,
		allowedOrigins: origins,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// clientIP strips the port from RemoteAddr. The RealIP middleware has
// already resolved forwarding headers by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) countUpload(mode, outcome string) {
	if h.metrics != nil {
		h.metrics.Uploads.WithLabelValues(mode, outcome).Inc()
	}
}
