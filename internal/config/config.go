package config

import "github.com/joho/godotenv"

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout Duration
	Live            LiveConfig
	Ownership       OwnershipConfig
	Metrics         MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present; real env vars win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		LogLevel:        envOrDefault(envLogLevel, "info"),
		LogFormat:       envOrDefault(envLogFormat, "text"),
		ShutdownTimeout: durationEnvOrDefault(envShutdownTimeout, defaultShutdownTimeout),
		Live:            loadLive(),
		Ownership:       loadOwnership(),
		Metrics:         loadMetrics(),
	}
}
