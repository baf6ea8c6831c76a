package config

// OwnershipConfig selects where court -> tournament ownership is looked up.
type OwnershipConfig struct {
	Driver       string // sqlite, postgres or memory
	DatabasePath string // sqlite file written by the snapshot fetcher
	DatabaseURL  string // postgres DSN
}

func loadOwnership() OwnershipConfig {
	return OwnershipConfig{
		Driver:       envOrDefault(envOwnershipDriver, defaultOwnershipDriver),
		DatabasePath: envOrDefault(envDatabasePath, defaultDatabasePath),
		DatabaseURL:  envOrDefault(envDatabaseURL, ""),
	}
}
