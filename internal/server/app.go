// Package server wires the intermediary service together: configuration,
// object storage, the notification client, rate limiting, metrics and the
// HTTP API, with graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/CHJCOCO/ryuin/internal/logging"
	"github.com/CHJCOCO/ryuin/internal/server/config"
	"github.com/CHJCOCO/ryuin/internal/server/handler"
	"github.com/CHJCOCO/ryuin/internal/server/metrics"
	"github.com/CHJCOCO/ryuin/internal/server/notify"
	"github.com/CHJCOCO/ryuin/internal/server/ratelimit"
	"github.com/CHJCOCO/ryuin/internal/server/storage"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	router  http.Handler
	limiter *ratelimit.Limiter
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)
	ctx := context.Background()

	// A missing storage configuration must not keep the whole service
	// down: the contact endpoints still work, and the upload endpoints
	// answer with a configuration error. The missing variables are
	// logged here, once, and never sent to clients.
	var store handler.ObjectStore
	s, err := storage.New(ctx, cfg.Storage())
	switch {
	case err == nil:
		store = s
	case errors.Is(err, upload.ErrConfigIncomplete):
		logger.Error(ctx, "object storage not configured", "missing", cfg.Storage().Missing())
	default:
		return nil, err
	}

	notifyCfg := notify.Config{
		BaseURL:      cfg.EmailJSBaseURL,
		ServiceID:    cfg.EmailJSServiceID,
		TemplateID:   cfg.EmailJSTemplateID,
		PublicKey:    cfg.EmailJSPublicKey,
		PrivateKey:   cfg.EmailJSPrivateKey,
		ContactEmail: cfg.ContactEmail,
	}
	notifier := notify.NewClient(notifyCfg)
	if !notifier.Complete() {
		logger.Warn(ctx, "notification service not configured", "missing", notifyCfg.Missing())
	}

	limiter := ratelimit.New(cfg.RatePerMinute, cfg.RateBurst)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	h := handler.New(handler.Options{
		Store:          store,
		Notifier:       notifier,
		Limiter:        limiter,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	return &App{
		config:  cfg,
		logger:  logger,
		router:  handler.NewRouter(h, logger, reg, cfg.Env),
		limiter: limiter,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	defer app.limiter.Stop()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr, "env", app.config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server stopped", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
	app.logger.Info(context.Background(), "server stopped")
}
