package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/queries"
)

// NewShipsCommand creates the ships command with subcommands
func NewShipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ships",
		Short: "Browse ship types in the catalog",
	}

	cmd.AddCommand(newShipsListCommand())

	return cmd
}

// newShipsListCommand creates the ships list subcommand
func newShipsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the ship types in the catalog",
		Long: `List every ship type in the module catalog with its hull mass, hull cost
and slot counts. Use the ID column with the build commands.

Example:
  outfitter ships list
  outfitter ships list --catalog ./my-catalog.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app) error {
				resp, err := a.send(cmd.Context(), &queries.ListShipsQuery{})
				if err != nil {
					return err
				}
				ships := resp.(*queries.ListShipsResponse).Ships

				out := cmd.OutOrStdout()
				if len(ships) == 0 {
					fmt.Fprintln(out, "The catalog has no ships.")
					return nil
				}

				t := newTable(out)
				fmt.Fprintln(t, "ID\tNAME\tMANUFACTURER\tHULL MASS\tHULL COST\tHARDPOINTS\tINTERNAL")
				fmt.Fprintln(t, "--\t----\t------------\t---------\t---------\t----------\t--------")
				for _, s := range ships {
					fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
						s.ID, s.Name, s.Manufacturer, tonnes(s.HullMass), credits(s.HullCost), s.Hardpoints, s.Internal)
				}
				return t.Flush()
			})
		},
	}
}
