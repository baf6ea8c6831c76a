package config

import "time"

const (
	envPort              = "PORT"
	envLogLevel          = "LOG_LEVEL"
	envLogFormat         = "LOG_FORMAT"
	envLiveBaseURL       = "LIVE_BASE_URL"
	envLiveHubPath       = "LIVE_HUB_PATH"
	envLiveUserAgent     = "LIVE_USER_AGENT"
	envNegotiateTimeout  = "LIVE_NEGOTIATE_TIMEOUT"
	envReconnectInitial  = "LIVE_RECONNECT_INITIAL"
	envReconnectMax      = "LIVE_RECONNECT_MAX"
	envSweepInterval     = "LIVE_SWEEP_INTERVAL"
	envIdleTimeout       = "LIVE_IDLE_TIMEOUT"
	envResolveTimeout    = "LIVE_RESOLVE_TIMEOUT"
	envOwnershipDriver   = "OWNERSHIP_DRIVER"
	envDatabasePath      = "DATABASE_PATH"
	envDatabaseURL       = "DATABASE_URL"
	envMetricsPort       = "METRICS_PORT"
	envMetricsOn         = "METRICS_ENABLED"
	envOtelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService       = "OTEL_SERVICE_NAME"
	envOtelInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"
	envShutdownTimeout   = "SHUTDOWN_TIMEOUT"
	defaultPort          = "4000"
	defaultLiveBaseURL   = "https://live.rankedin.com"
	defaultLiveHubPath   = "/scores"
	defaultLiveUserAgent = "court-live-service/1.0"
	// Negotiation is a single small POST; anything slower is treated as a transient failure.
	defaultNegotiateTimeout = 10 * Duration(time.Second)
	defaultReconnectInitial = 5 * Duration(time.Second)
	defaultReconnectMax     = 60 * Duration(time.Second)
	defaultSweepInterval    = 10 * Duration(time.Second)
	defaultIdleTimeout      = 60 * Duration(time.Second)
	defaultResolveTimeout   = 2 * Duration(time.Second)
	defaultShutdownTimeout  = 10 * Duration(time.Second)
	defaultOwnershipDriver  = "sqlite"
	defaultDatabasePath     = "data/tournaments.db"
	defaultMetricsPort      = "9090"
	defaultServiceName      = "court-live-service"
)
