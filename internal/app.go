package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"portal/internal/controllers"
	"portal/internal/providers"
	"portal/internal/storage/interfaces"
	"portal/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// NewHandler assembles the HTTP surface: infrastructure endpoints open to
// everyone, portal API routes behind the user identity middleware.
func NewHandler(router providers.RouterProviderInterface, healthController *controllers.HealthController, conf *structures.Config, metrics providers.MetricsProviderInterface) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(providers.MetricsMiddleware(metrics))

	r.Get("/health", healthController.Health)
	if conf.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(api chi.Router) {
		api.Use(providers.UserMiddleware(conf))
		router.Mount(api)
	})
	return r
}

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// NewApp restores persisted state, serves until SIGINT/SIGTERM or a listener
// failure, then drains connections and writes the final snapshot.
func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Snapshot restore failed, starting empty: %s", err)
	}

	addr := net.JoinHostPort(conf.WebServer.Host, strconv.Itoa(conf.WebServer.Port))
	app := &App{
		WebServer: &http.Server{
			Addr:         addr,
			Handler:      NewHandler(router, healthController, conf, metrics),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}

	scheduler.Init()
	defer scheduler.Stop()

	if err := app.serve(logger, addr); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, fmt.Errorf("shutdown: %w", err)
	}
	if err := scheduler.Persist(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "%s stopped", conf.AppName)
	return app, nil
}

// serve blocks until a termination signal arrives (nil) or the listener fails.
func (a *App) serve(logger providers.Logger, addr string) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening on %s", addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case <-sigCtx.Done():
		logger.Infof(providers.TypeApp, "Shutdown signal received")
		return nil
	case err := <-listenErr:
		return fmt.Errorf("server error: %w", err)
	}
}
