package config

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// CatalogConfig selects the module and ship data
type CatalogConfig struct {
	// Path to a catalog file or an http(s) URL. Empty uses the catalog built into the binary.
	Path string `mapstructure:"path"`

	// File format: yaml or toml. Guessed from the extension when empty.
	Format string `mapstructure:"format" validate:"omitempty,oneof=yaml toml"`

	// Fetch settings apply when Path is a URL
	Fetch FetchConfig `mapstructure:"fetch"`
}

// FetchConfig holds HTTP settings for remote catalogs
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`

	// Retries after the first attempt on network errors, 429 and 5xx responses
	MaxRetries int `mapstructure:"max_retries" validate:"min=0,max=10"`

	// First backoff delay, doubled on each retry
	BackoffBase time.Duration `mapstructure:"backoff_base"`

	// Requests per second, shared by every attempt
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// IsRemote reports whether a catalog path is an http(s) URL
func IsRemote(p string) bool {
	u, err := url.Parse(p)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FormatFromPath guesses the catalog format from a file or URL extension
func FormatFromPath(p string) string {
	ext := filepath.Ext(p)
	if IsRemote(p) {
		u, _ := url.Parse(p)
		ext = path.Ext(u.Path)
	}
	switch strings.ToLower(ext) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}
