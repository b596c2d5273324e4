package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect outfitter configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (OUTFIT_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  outfitter config show
  OUTFIT_PRICING_MODULE_MULTIPLIER=0.85 outfitter config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Outfitter Configuration")
			fmt.Fprintln(out, "=======================")

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nCatalog:")
			if cfg.Catalog.Path == "" {
				fmt.Fprintln(out, "  Path:             (built-in)")
			} else {
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Catalog.Path)
				fmt.Fprintf(out, "  Format:           %s\n", cfg.Catalog.Format)
				if config.IsRemote(cfg.Catalog.Path) {
					fmt.Fprintf(out, "  Fetch Timeout:    %s\n", cfg.Catalog.Fetch.Timeout)
					fmt.Fprintf(out, "  Fetch Retries:    %d\n", cfg.Catalog.Fetch.MaxRetries)
				}
			}

			fmt.Fprintln(out, "\nPricing:")
			fmt.Fprintf(out, "  Ship Multiplier:  %.2f\n", cfg.Pricing.ShipMultiplier)
			fmt.Fprintf(out, "  Module Multiplier: %.2f\n", cfg.Pricing.ModuleMultiplier)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %s\n", yesNo(cfg.Metrics.Enabled))
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Namespace:        %s\n", cfg.Metrics.Namespace)
				fmt.Fprintf(out, "  Textfile:         %s\n", cfg.Metrics.TextfilePath)
			}

			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
