package server

import (
	"log/slog"

	"github.com/preston-bernstein/court-live-service/internal/config"
	"github.com/preston-bernstein/court-live-service/internal/livefeed"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
	"github.com/preston-bernstein/court-live-service/internal/ownership"
	"github.com/preston-bernstein/court-live-service/internal/subscriptions"
)

var openOwnership = ownership.Open

// liveClientConfig maps the live section of the config onto the hub client settings.
func liveClientConfig(cfg config.LiveConfig, logger *slog.Logger, recorder *metrics.Recorder) livefeed.Config {
	return livefeed.Config{
		BaseURL:          cfg.BaseURL,
		HubPath:          cfg.HubPath,
		UserAgent:        cfg.UserAgent,
		NegotiateTimeout: cfg.NegotiateTimeout,
		InitialDelay:     cfg.ReconnectInitial,
		MaxDelay:         cfg.ReconnectMax,
		Logger:           logger,
		Metrics:          recorder,
	}
}

func buildManager(cfg config.LiveConfig, resolver subscriptions.Resolver, factory subscriptions.ClientFactory, logger *slog.Logger, recorder *metrics.Recorder) *subscriptions.Manager {
	if factory == nil {
		factory = subscriptions.LiveClientFactory(liveClientConfig(cfg, logger, recorder))
	}
	return subscriptions.NewManager(resolver, subscriptions.Options{
		Factory:        factory,
		SweepInterval:  cfg.SweepInterval,
		IdleTimeout:    cfg.IdleTimeout,
		ResolveTimeout: cfg.ResolveTimeout,
		Logger:         logger,
		Metrics:        recorder,
	})
}
