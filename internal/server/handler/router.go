package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CHJCOCO/ryuin/internal/logging"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRouter assembles the HTTP handler. The API routes answer CORS
// preflight with POST, OPTIONS; outside prod every origin is allowed so
// the site can be developed against a local server.
func NewRouter(h *Handler, log logging.Logger, reg *prometheus.Registry, env string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestSize(maxUploadBody))

	corsOrigins := []string{"https://ryuin.studio", "https://*.ryuin.studio"}
	if env != "prod" {
		corsOrigins = []string{"*"}
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))

		r.Post("/upload", h.Upload)
		r.Post("/presigned-url", h.Presign)
		r.Post("/send-email", h.SendEmail)
		r.Get("/check-email-config", h.CheckEmailConfig)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now()})
	})

	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return r
}
