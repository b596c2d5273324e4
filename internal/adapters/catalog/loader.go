package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/outfitting-go/internal/adapters/api"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
)

// Supported catalog file formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Parse decodes and indexes a catalog. Unknown keys are rejected so that typos in
// hand-edited catalogs surface instead of silently zeroing a figure.
func Parse(raw []byte, format string) (*Catalog, error) {
	var data Data
	switch format {
	case FormatYAML, "":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode toml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	c, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog file
func Load(path, format string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if format == "" {
		format = config.FormatFromPath(path)
	}
	return Parse(raw, format)
}

// LoadDefault returns the catalog built into the binary
func LoadDefault() (*Catalog, error) {
	return Parse(defaultCatalog, FormatYAML)
}

// Fetch downloads and parses a catalog served over http(s)
func Fetch(ctx context.Context, url, format string, fetch config.FetchConfig) (*Catalog, error) {
	raw, err := api.NewCatalogClient(fetch, nil).Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if format == "" {
		format = config.FormatFromPath(url)
	}
	return Parse(raw, format)
}

// FromConfig loads the configured catalog from a file or URL, falling back to the
// built-in one
func FromConfig(ctx context.Context, cfg config.CatalogConfig) (*Catalog, error) {
	switch {
	case cfg.Path == "":
		return LoadDefault()
	case config.IsRemote(cfg.Path):
		return Fetch(ctx, cfg.Path, cfg.Format, cfg.Fetch)
	default:
		return Load(cfg.Path, cfg.Format)
	}
}
