// Package metrics exposes Prometheus counters for the upload pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the service counters. Construct once and register on
// a registry owned by the app, never on the global default, so tests can
// create as many instances as they like.
type Metrics struct {
	// Uploads counts upload attempts by mode ("proxied", "presign") and
	// outcome ("success", "validation", "config", "storage").
	Uploads *prometheus.CounterVec
	// UploadBytes counts bytes accepted into storage via the proxied path.
	UploadBytes prometheus.Counter
	// Inquiries counts contact submissions by outcome.
	Inquiries *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ryuin_uploads_total",
			Help: "Upload attempts by mode and outcome.",
		}, []string{"mode", "outcome"}),
		UploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ryuin_upload_bytes_total",
			Help: "Bytes stored via the server-proxied path.",
		}),
		Inquiries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ryuin_inquiries_total",
			Help: "Contact inquiries by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.Uploads, m.UploadBytes, m.Inquiries)
	return m
}
