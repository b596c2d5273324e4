package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	catalogPath string
	verbose     bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "outfitter",
		Short: "Outfitter - decode, optimize and keep ship build codes",
		Long: `Outfitter fits ships from a module catalog and works with build codes.

A build code captures every module a ship carries plus the enabled flag and power
priority of each slot. Codes can be decoded into full ship statistics, optimized for
mass, and saved under a name for later.

Examples:
  outfitter ships list
  outfitter build decode sidewinder 02A2D2A1D1D1D1C0000--0100--..
  outfitter build optimize sidewinder --pp-rating A
  outfitter build save sidewinder <code> --name "Trader"
  outfitter build list --ship sidewinder`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml, /etc/outfitter/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "",
		"Path to a YAML or TOML module catalog (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewShipsCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
