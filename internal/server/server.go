package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/preston-bernstein/court-live-service/internal/config"
	httpserver "github.com/preston-bernstein/court-live-service/internal/http"
	"github.com/preston-bernstein/court-live-service/internal/http/handlers"
	"github.com/preston-bernstein/court-live-service/internal/logging"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
	"github.com/preston-bernstein/court-live-service/internal/ownership"
	"github.com/preston-bernstein/court-live-service/internal/store"
	"github.com/preston-bernstein/court-live-service/internal/subscriptions"
)

var metricsSetup = metrics.Setup

var errDraining = errors.New("shutting down")

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	ownership     ownership.Store
	states        *store.LiveStore
	manager       Manager
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	draining      atomic.Bool
}

// New opens the ownership store and wires the live subscription stack behind the HTTP router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	owners, err := openOwnership(ctx, cfg.Ownership)
	if err != nil {
		return nil, fmt.Errorf("open ownership store: %w", err)
	}
	return newServerWithMetrics(cfg, logger, owners, nil, nil), nil
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, owners ownership.Store, factory subscriptions.ClientFactory, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	states := store.NewLiveStore()
	manager := buildManager(cfg.Live, owners, factory, logger, recorder)
	manager.SetUpdateCallback(states.Apply)

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		ownership:     owners,
		states:        states,
		manager:       manager,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
	s.httpServer = buildHTTPServer(cfg, manager, states, logger, recorder, s.ready)
	return s
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, mgr Manager) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		manager:    mgr,
	}
}

func buildHTTPServer(cfg config.Config, mgr handlers.Subscriptions, states handlers.LiveReader, logger *slog.Logger, recorder *metrics.Recorder, readyFn func() error) httpServer {
	handler := handlers.NewHandler(mgr, states, logger, readyFn)
	router := httpserver.NewRouter(handler, logger, recorder)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

func (s *Server) ready() error {
	if s.draining.Load() {
		return errDraining
	}
	return nil
}

// Run starts the sweep worker and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.manager.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	s.draining.Store(true)

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = shutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if err := s.manager.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop subscriptions", err)
	}

	if s.ownership != nil {
		if err := s.ownership.Close(); err != nil {
			logging.Warn(s.logger, "ownership store close failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Manager exposes the subscription manager so callers can seed subscriptions.
func (s *Server) Manager() Manager {
	return s.manager
}
