package config

import "time"

// LiveConfig controls how we reach the live scores hub and how subscriptions age out.
type LiveConfig struct {
	BaseURL          string
	HubPath          string
	UserAgent        string
	NegotiateTimeout time.Duration
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
	SweepInterval    time.Duration
	IdleTimeout      time.Duration
	ResolveTimeout   time.Duration
}

func loadLive() LiveConfig {
	cfg := LiveConfig{
		BaseURL:          envOrDefault(envLiveBaseURL, defaultLiveBaseURL),
		HubPath:          envOrDefault(envLiveHubPath, defaultLiveHubPath),
		UserAgent:        envOrDefault(envLiveUserAgent, defaultLiveUserAgent),
		NegotiateTimeout: durationEnvOrDefault(envNegotiateTimeout, defaultNegotiateTimeout),
		ReconnectInitial: durationEnvOrDefault(envReconnectInitial, defaultReconnectInitial),
		ReconnectMax:     durationEnvOrDefault(envReconnectMax, defaultReconnectMax),
		SweepInterval:    durationEnvOrDefault(envSweepInterval, defaultSweepInterval),
		IdleTimeout:      durationEnvOrDefault(envIdleTimeout, defaultIdleTimeout),
		ResolveTimeout:   durationEnvOrDefault(envResolveTimeout, defaultResolveTimeout),
	}
	// A cap below the starting delay would make the backoff shrink.
	if cfg.ReconnectMax < cfg.ReconnectInitial {
		cfg.ReconnectMax = cfg.ReconnectInitial
	}
	return cfg
}
