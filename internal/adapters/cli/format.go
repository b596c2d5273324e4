package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/dtos"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// printer groups thousands in credits and tonnes
var printer = message.NewPrinter(language.English)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func credits(v int64) string {
	return printer.Sprintf("%d CR", v)
}

func tonnes(v float64) string {
	return printer.Sprintf("%.2f t", v)
}

// printStats writes the derived statistics of a ship
func printStats(w io.Writer, stats outfitting.Stats) {
	t := newTable(w)
	fmt.Fprintf(t, "Unladen mass\t%s\n", tonnes(stats.UnladenMass))
	fmt.Fprintf(t, "Laden mass\t%s\n", tonnes(stats.LadenMass))
	fmt.Fprintf(t, "Fuel / cargo\t%s / %s\n", tonnes(stats.FuelCapacity), tonnes(stats.CargoCapacity))
	fmt.Fprintf(t, "Armour\t%s\n", printer.Sprintf("%.0f", stats.Armour))
	fmt.Fprintf(t, "Shields\t%s\n", printer.Sprintf("%.1f MJ", stats.ShieldStrength))
	fmt.Fprintf(t, "Speed / boost\t%.1f / %.1f m/s\n", stats.TopSpeed, stats.TopBoost)
	fmt.Fprintf(t, "Speed at 0/2/4 pips\t%.1f / %.1f / %.1f m/s\n",
		stats.Speeds.ZeroPips, stats.Speeds.TwoPips, stats.Speeds.FourPips)
	fmt.Fprintf(t, "Can thrust / boost\t%s / %s\n", yesNo(stats.CanThrust), yesNo(stats.CanBoost))
	fmt.Fprintf(t, "Jump range\t%.2f ly unladen, %.2f ly laden, %.2f ly full tank\n",
		stats.UnladenRange, stats.LadenRange, stats.FullTankRange)
	fmt.Fprintf(t, "Total range\t%.2f ly unladen, %.2f ly laden (%d jumps)\n",
		stats.UnladenTotalRange, stats.LadenTotalRange, stats.MaxJumpCount)
	fmt.Fprintf(t, "Power\t%.2f MW available, %.2f retracted, %.2f deployed\n",
		stats.PowerAvailable, stats.PowerRetracted, stats.PowerDeployed)
	fmt.Fprintf(t, "DPS\t%.1f\n", stats.TotalDPS)
	fmt.Fprintf(t, "Total cost\t%s\n", credits(stats.TotalCost))
	t.Flush()
}

// printSlots writes the slot table
func printSlots(w io.Writer, slots []dtos.SlotDTO) {
	t := newTable(w)
	fmt.Fprintln(t, "SLOT\tSIZE\tMODULE\tMASS\tPOWER\tPRI\tSTATUS\tCOST")
	fmt.Fprintln(t, "----\t----\t------\t----\t-----\t---\t------\t----")
	for _, s := range slots {
		module, priority := "-", "-"
		if s.Token != "" {
			module = s.Module
		}
		if s.Priority > 0 {
			priority = fmt.Sprintf("%d", s.Priority)
		}
		status := s.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(t, "%s\t%d\t%s\t%.2f\t%.2f\t%s\t%s\t%s\n",
			s.Slot, s.MaxClass, module, s.Mass, s.Power, priority, status, credits(s.Cost))
	}
	t.Flush()
}

// printBands writes the power priority bands
func printBands(w io.Writer, bands []outfitting.BandTotals) {
	t := newTable(w)
	fmt.Fprintln(t, "PRIORITY\tRETRACTED\tDEPLOYED\tCUMULATIVE RETRACTED\tCUMULATIVE DEPLOYED")
	for i, b := range bands {
		fmt.Fprintf(t, "%d\t%.2f\t%.2f\t%.2f\t%.2f\n", i+1, b.Retracted, b.Deployed, b.RetractedSum, b.DeployedSum)
	}
	t.Flush()
}

// printBuilds writes saved builds as a table
func printBuilds(w io.Writer, builds []*outfitting.SavedBuild) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tSHIP\tMASS\tCOST\tSAVED")
	fmt.Fprintln(t, "--\t----\t----\t----\t----\t-----")
	for _, b := range builds {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID(), b.Name(), b.ShipID(), tonnes(b.UnladenMass()), credits(b.TotalCost()),
			b.CreatedAt().Format("2006-01-02 15:04"))
	}
	t.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
