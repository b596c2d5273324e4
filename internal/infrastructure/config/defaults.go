package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "outfitter.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "outfitter"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "outfitter"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Catalog defaults
	if cfg.Catalog.Path != "" && cfg.Catalog.Format == "" {
		cfg.Catalog.Format = FormatFromPath(cfg.Catalog.Path)
	}
	if cfg.Catalog.Fetch.Timeout == 0 {
		cfg.Catalog.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Catalog.Fetch.MaxRetries == 0 {
		cfg.Catalog.Fetch.MaxRetries = 3
	}
	if cfg.Catalog.Fetch.BackoffBase == 0 {
		cfg.Catalog.Fetch.BackoffBase = time.Second
	}
	if cfg.Catalog.Fetch.RateLimit == 0 {
		cfg.Catalog.Fetch.RateLimit = 2
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "outfitter"
	}

	// Pricing defaults
	if cfg.Pricing.ShipMultiplier == 0 {
		cfg.Pricing.ShipMultiplier = 1
	}
	if cfg.Pricing.ModuleMultiplier == 0 {
		cfg.Pricing.ModuleMultiplier = 1
	}
}
