package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/commands"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/queries"
)

// NewBuildCommand creates the build command with subcommands
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Decode, optimize and keep build codes",
		Long: `Work with build codes.

A build code has up to three segments separated by dots: the modules of every slot,
then the compressed enabled flags and power priorities. Missing flag segments mean
every slot is enabled at the first priority.

Examples:
  outfitter build decode sidewinder 02A2D2A1D1D1D1C0000--0100--..
  outfitter build optimize eagle --pin thrusters=3A --pp-rating C
  outfitter build save eagle <code> --name "Bounty hunter"
  outfitter build list --ship eagle
  outfitter build show <id>`,
	}

	cmd.AddCommand(newBuildDecodeCommand())
	cmd.AddCommand(newBuildOptimizeCommand())
	cmd.AddCommand(newBuildSaveCommand())
	cmd.AddCommand(newBuildListCommand())
	cmd.AddCommand(newBuildShowCommand())
	cmd.AddCommand(newBuildRenameCommand())
	cmd.AddCommand(newBuildDeleteCommand())

	return cmd
}

// newBuildDecodeCommand creates the build decode subcommand
func newBuildDecodeCommand() *cobra.Command {
	var (
		deployed bool
		showBand bool
	)

	cmd := &cobra.Command{
		Use:   "decode <ship-id> <code>",
		Short: "Fit a ship from a build code and show its statistics",
		Long: `Fit a ship from a build code and show its statistics, slots and the
normalized code. Module tokens the catalog does not know leave their slot empty and
drop out of the normalized code.

Examples:
  outfitter build decode sidewinder 02A2D2A1D1D1D1C0000--0100--..
  outfitter build decode sidewinder <code> --deployed --bands`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app) error {
				resp, err := a.send(cmd.Context(), &commands.DecodeBuildCommand{
					ShipID:   args[0],
					Code:     args[1],
					Deployed: deployed,
				})
				if err != nil {
					return err
				}
				decoded := resp.(*commands.DecodeBuildResponse)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ship: %s\n", decoded.Ship.ID())
				fmt.Fprintf(out, "Code: %s\n\n", decoded.Code)
				printStats(out, decoded.Stats)
				fmt.Fprintln(out)
				printSlots(out, decoded.Slots)
				if showBand {
					fmt.Fprintln(out)
					printBands(out, decoded.Bands)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&deployed, "deployed", false, "Report power status with hardpoints deployed")
	cmd.Flags().BoolVar(&showBand, "bands", false, "Show the power priority bands")

	return cmd
}

// newBuildOptimizeCommand creates the build optimize subcommand
func newBuildOptimizeCommand() *cobra.Command {
	var (
		code     string
		pins     map[string]string
		ppRating string
	)

	cmd := &cobra.Command{
		Use:   "optimize <ship-id>",
		Short: "Find the lightest standard modules that keep the ship flying",
		Long: `Strip hardpoints and internals and fit the lightest power plant, thrusters,
frame shift drive, life support, power distributor and sensors that still power the
ship and let it boost. The fuel tank is kept.

Slots can be pinned to a class+rating with --pin. When no catalog module satisfies a
slot the best candidate is fitted and the slot is reported.

Examples:
  outfitter build optimize sidewinder
  outfitter build optimize eagle --code <code> --pin thrusters=3A --pin sensors=1D
  outfitter build optimize eagle --pp-rating A`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app) error {
				resp, err := a.send(cmd.Context(), &commands.OptimizeBuildCommand{
					ShipID:           args[0],
					Code:             code,
					Pinned:           pins,
					PowerPlantRating: strings.ToUpper(ppRating),
				})
				if err != nil {
					return err
				}
				optimized := resp.(*commands.OptimizeBuildResponse)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ship: %s\n", optimized.Ship.ID())
				fmt.Fprintf(out, "Code: %s\n", optimized.Code)
				fmt.Fprintf(out, "Search: %d iterations", optimized.Iterations)
				if !optimized.Converged {
					fmt.Fprint(out, " (iteration limit reached)")
				}
				fmt.Fprintln(out)
				if len(optimized.Infeasible) > 0 {
					fmt.Fprintf(out, "No module satisfies: %s\n", strings.Join(optimized.Infeasible, ", "))
				}
				fmt.Fprintln(out)
				printStats(out, optimized.Stats)
				fmt.Fprintln(out)
				printSlots(out, optimized.Slots)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Build code to start from (default: the fresh ship)")
	cmd.Flags().StringToStringVar(&pins, "pin", nil, "Pin a standard slot to a class+rating, e.g. thrusters=3A")
	cmd.Flags().StringVar(&ppRating, "pp-rating", "", "Worst power plant rating the search may pick (A-E)")

	return cmd
}

// newBuildSaveCommand creates the build save subcommand
func newBuildSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <ship-id> <code>",
		Short: "Save a build code under a name",
		Long: `Decode a build code and save it under a name. The normalized code is stored
together with the build's unladen mass and total cost.

Example:
  outfitter build save sidewinder 02A2D2A1D1D1D1C0000--0100--.. --name "Starter"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), true, func(a *app) error {
				resp, err := a.send(cmd.Context(), &commands.SaveBuildCommand{
					ShipID: args[0],
					Code:   args[1],
					Name:   name,
				})
				if err != nil {
					return err
				}
				build := resp.(*commands.SaveBuildResponse).Build

				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q as %s\n", build.Name(), build.ID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the build (required)")
	cmd.MarkFlagRequired("name")

	return cmd
}

// newBuildListCommand creates the build list subcommand
func newBuildListCommand() *cobra.Command {
	var shipID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved builds, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), true, func(a *app) error {
				resp, err := a.send(cmd.Context(), &queries.ListSavedBuildsQuery{ShipID: shipID})
				if err != nil {
					return err
				}
				builds := resp.(*queries.ListSavedBuildsResponse).Builds

				out := cmd.OutOrStdout()
				if len(builds) == 0 {
					fmt.Fprintln(out, "No saved builds.")
					return nil
				}
				printBuilds(out, builds)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&shipID, "ship", "", "Only list builds of this ship type")

	return cmd
}

// newBuildShowCommand creates the build show subcommand
func newBuildShowCommand() *cobra.Command {
	var deployed bool

	cmd := &cobra.Command{
		Use:   "show <build-id>",
		Short: "Decode a saved build and show its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), true, func(a *app) error {
				resp, err := a.send(cmd.Context(), &queries.GetSavedBuildQuery{BuildID: args[0]})
				if err != nil {
					return err
				}
				build := resp.(*queries.GetSavedBuildResponse).Build

				resp, err = a.send(cmd.Context(), &commands.DecodeBuildCommand{
					ShipID:   build.ShipID(),
					Code:     build.Code(),
					Deployed: deployed,
				})
				if err != nil {
					return err
				}
				decoded := resp.(*commands.DecodeBuildResponse)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Build: %s (%s)\n", build.Name(), build.ID())
				fmt.Fprintf(out, "Saved: %s\n", build.CreatedAt().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Ship:  %s\n", decoded.Ship.ID())
				fmt.Fprintf(out, "Code:  %s\n\n", decoded.Code)
				printStats(out, decoded.Stats)
				fmt.Fprintln(out)
				printSlots(out, decoded.Slots)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&deployed, "deployed", false, "Report power status with hardpoints deployed")

	return cmd
}

// newBuildRenameCommand creates the build rename subcommand
func newBuildRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <build-id> <name>",
		Short: "Rename a saved build",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), true, func(a *app) error {
				resp, err := a.send(cmd.Context(), &commands.RenameBuildCommand{BuildID: args[0], Name: args[1]})
				if err != nil {
					return err
				}
				build := resp.(*commands.RenameBuildResponse).Build

				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", build.ID(), build.Name())
				return nil
			})
		},
	}
}

// newBuildDeleteCommand creates the build delete subcommand
func newBuildDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <build-id>",
		Short: "Delete a saved build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), true, func(a *app) error {
				if _, err := a.send(cmd.Context(), &commands.DeleteBuildCommand{BuildID: args[0]}); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
