package config

// MetricsConfig holds metrics collection configuration. The CLI has no long-running
// process to scrape, so metrics are written in the node exporter textfile format.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Namespace prefixes every metric name
	Namespace string `mapstructure:"namespace" validate:"required"`

	// TextfilePath is where the registry is written when a command finishes
	TextfilePath string `mapstructure:"textfile_path" validate:"required_if=Enabled true"`
}
