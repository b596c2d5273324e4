package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/outfitting-go/internal/adapters/catalog"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/test/helpers"
)

const statTolerance = 1e-6

type outfittingContext struct {
	catalog *catalog.Catalog
	ship    *outfitting.Ship
	err     error

	// snapshot taken before the last mutation, for "unchanged" assertions
	beforeStats outfitting.Stats
	beforeCode  string

	code   string
	result outfitting.LightestResult
}

func (oc *outfittingContext) reset() {
	oc.catalog = nil
	oc.ship = nil
	oc.err = nil
	oc.beforeStats = outfitting.Stats{}
	oc.beforeCode = ""
	oc.code = ""
	oc.result = outfitting.LightestResult{}
}

func (oc *outfittingContext) snapshot() {
	oc.beforeStats = oc.ship.Stats()
	oc.beforeCode, _ = oc.ship.BuildCode()
}

// parseRef reads "hardpoint 0", "internal 2", "cargo hatch" or a standard slot name
// with spaces ("power plant").
func parseRef(text string) (outfitting.SlotRef, error) {
	fields := strings.Fields(text)
	if len(fields) == 2 {
		if index, err := strconv.Atoi(fields[1]); err == nil {
			switch fields[0] {
			case "hardpoint":
				return outfitting.HardpointRef(index), nil
			case "internal":
				return outfitting.InternalRef(index), nil
			}
		}
	}
	if text == "cargo hatch" {
		return outfitting.CargoHatchRef, nil
	}
	k, err := outfitting.ParseStandardSlot(strings.ReplaceAll(text, " ", "_"))
	if err != nil {
		return outfitting.SlotRef{}, err
	}
	return outfitting.StandardRef(k), nil
}

// moduleFor resolves a token against the catalog for the slot kind
func (oc *outfittingContext) moduleFor(ref outfitting.SlotRef, token string) (*outfitting.Module, error) {
	var m *outfitting.Module
	switch ref.Kind {
	case outfitting.RefStandard:
		m = oc.catalog.Standard(outfitting.StandardSlot(ref.Index), token)
	case outfitting.RefHardpoint:
		m = oc.catalog.Hardpoint(token)
	case outfitting.RefInternal:
		m = oc.catalog.Internal(token)
	}
	if m == nil {
		return nil, fmt.Errorf("catalog has no %q for %s", token, ref)
	}
	return m, nil
}

// cellValue reads a column of a data table row by its header name
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (oc *outfittingContext) aFreshTestShip() error {
	oc.ship, oc.catalog = helpers.NewTestShip()
	return nil
}

func (oc *outfittingContext) aTestShipWithTheStandardFit() error {
	oc.ship, oc.catalog = helpers.NewTestShip()
	return helpers.FitStandard(oc.ship, oc.catalog)
}

func (oc *outfittingContext) iInstallIn(token, slot string) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	m, err := oc.moduleFor(ref, token)
	if err != nil {
		return err
	}
	oc.snapshot()
	_, oc.err = oc.ship.Install(ref, m)
	return nil
}

func (oc *outfittingContext) iInstallTheFollowingModules(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("table needs a header and at least one row")
	}
	_, err := oc.ship.Batch(func(b *outfitting.Batch) error {
		for _, row := range table.Rows[1:] {
			ref, err := parseRef(cellValue(table, row, "slot"))
			if err != nil {
				return err
			}
			m, err := oc.moduleFor(ref, cellValue(table, row, "module"))
			if err != nil {
				return err
			}
			if err := b.Install(ref, m); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

func (oc *outfittingContext) iRemove(slot string) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	oc.snapshot()
	_, oc.err = oc.ship.Remove(ref)
	return nil
}

func (oc *outfittingContext) iToggle(action, slot string) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	oc.snapshot()
	_, oc.err = oc.ship.SetEnabled(ref, action == "enable")
	return nil
}

func (oc *outfittingContext) iSetThePriorityOfTo(slot string, priority int) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	oc.snapshot()
	_, oc.err = oc.ship.SetPriority(ref, priority)
	return nil
}

func (oc *outfittingContext) iFitBulkhead(index int) error {
	oc.snapshot()
	_, oc.err = oc.ship.UseBulkhead(index)
	return nil
}

func (oc *outfittingContext) iApplyDiscounts(ship, module float64) error {
	oc.snapshot()
	_, oc.err = oc.ship.ApplyDiscounts(ship, module)
	return nil
}

func statValue(stats outfitting.Stats, name string) (float64, error) {
	switch name {
	case "unladen mass":
		return stats.UnladenMass, nil
	case "laden mass":
		return stats.LadenMass, nil
	case "fuel capacity":
		return stats.FuelCapacity, nil
	case "cargo capacity":
		return stats.CargoCapacity, nil
	case "armour":
		return stats.Armour, nil
	case "shield strength":
		return stats.ShieldStrength, nil
	case "available power":
		return stats.PowerAvailable, nil
	case "retracted power":
		return stats.PowerRetracted, nil
	case "deployed power":
		return stats.PowerDeployed, nil
	case "total dps":
		return stats.TotalDPS, nil
	case "total cost":
		return float64(stats.TotalCost), nil
	case "max jump count":
		return float64(stats.MaxJumpCount), nil
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

func (oc *outfittingContext) theStatShouldBe(name string, want float64) error {
	got, err := statValue(oc.ship.Stats(), name)
	if err != nil {
		return err
	}
	if math.Abs(got-want) > statTolerance {
		return fmt.Errorf("expected %s %v, got %v", name, want, got)
	}
	return nil
}

func (oc *outfittingContext) theShipCan(can, what string) error {
	want := can == "can"
	var got bool
	switch what {
	case "thrust":
		got = oc.ship.CanThrust()
	case "boost":
		got = oc.ship.CanBoost()
	}
	if got != want {
		return fmt.Errorf("expected ship %s %s", can, what)
	}
	return nil
}

func (oc *outfittingContext) theSlotShouldBeWithHardpoints(slot, status, deployment string) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	got, err := oc.ship.SlotStatus(ref, deployment == "deployed")
	if err != nil {
		return err
	}
	want := status
	if want == "unpowered" {
		want = ""
	}
	if got.String() != want {
		return fmt.Errorf("expected %s %s with hardpoints %s, got %q", slot, status, deployment, got)
	}
	return nil
}

func (oc *outfittingContext) theSlotShouldHold(slot, token string) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	s, err := oc.ship.Slot(ref)
	if err != nil {
		return err
	}
	if s.IsEmpty() {
		return fmt.Errorf("expected %s to hold %s, slot is empty", slot, token)
	}
	if s.Module().Token() != token {
		return fmt.Errorf("expected %s to hold %s, got %s", slot, token, s.Module().Token())
	}
	return nil
}

func (oc *outfittingContext) theSlotShouldBeEmpty(slot string) error {
	ref, err := parseRef(slot)
	if err != nil {
		return err
	}
	s, err := oc.ship.Slot(ref)
	if err != nil {
		return err
	}
	if !s.IsEmpty() {
		return fmt.Errorf("expected %s to be empty, holds %s", slot, s.Module().Token())
	}
	return nil
}

func (oc *outfittingContext) theOperationShouldSucceed() error {
	if oc.err != nil {
		return fmt.Errorf("expected success, got %v", oc.err)
	}
	return oc.ship.VerifyInvariants()
}

func errorKind(err error) string {
	var (
		notAllowed *shared.ModuleNotAllowedError
		priority   *shared.PriorityOutOfRangeError
		bulkhead   *shared.InvalidBulkheadError
		slot       *shared.InvalidSlotError
		code       *shared.InvalidBuildCodeError
		infeasible *shared.InfeasibleConfigurationError
		validation *shared.ValidationError
	)
	switch {
	case errors.As(err, &notAllowed):
		return "module not allowed"
	case errors.As(err, &priority):
		return "priority out of range"
	case errors.As(err, &bulkhead):
		return "invalid bulkhead"
	case errors.As(err, &slot):
		return "invalid slot"
	case errors.As(err, &code):
		return "invalid build code"
	case errors.As(err, &infeasible):
		return "infeasible configuration"
	case errors.As(err, &validation):
		return "validation"
	}
	return "unknown"
}

func (oc *outfittingContext) theOperationShouldFailWith(kind string) error {
	if oc.err == nil {
		return fmt.Errorf("expected a %s error, got none", kind)
	}
	if got := errorKind(oc.err); got != kind {
		return fmt.Errorf("expected a %s error, got %s: %v", kind, got, oc.err)
	}
	return nil
}

func (oc *outfittingContext) theShipShouldBeUnchanged() error {
	if oc.ship.Stats() != oc.beforeStats {
		return fmt.Errorf("stats changed: before %+v, after %+v", oc.beforeStats, oc.ship.Stats())
	}
	code, err := oc.ship.BuildCode()
	if err != nil {
		return err
	}
	if code != oc.beforeCode {
		return fmt.Errorf("build code changed from %q to %q", oc.beforeCode, code)
	}
	return nil
}

// Build codes

func (oc *outfittingContext) iExportTheBuildCode() error {
	oc.code, oc.err = oc.ship.BuildCode()
	return oc.err
}

func (oc *outfittingContext) theBuildCodeShouldBe(want string) error {
	if oc.code != want {
		return fmt.Errorf("expected build code %q, got %q", want, oc.code)
	}
	return nil
}

func (oc *outfittingContext) theBuildCodeShouldStartWith(prefix string) error {
	if !strings.HasPrefix(oc.code, prefix) {
		return fmt.Errorf("expected build code to start with %q, got %q", prefix, oc.code)
	}
	return nil
}

func (oc *outfittingContext) aFreshShipBuiltFromTheExportedCodeMatches() error {
	copyShip, _ := helpers.NewTestShip()
	if _, err := copyShip.BuildFromCode(oc.code); err != nil {
		return err
	}
	if copyShip.Stats() != oc.ship.Stats() {
		return fmt.Errorf("rebuilt stats %+v differ from %+v", copyShip.Stats(), oc.ship.Stats())
	}
	code, err := copyShip.BuildCode()
	if err != nil {
		return err
	}
	if code != oc.code {
		return fmt.Errorf("rebuilt ship encodes as %q, expected %q", code, oc.code)
	}
	return nil
}

func (oc *outfittingContext) iBuildFromCode(code string) error {
	oc.snapshot()
	_, oc.err = oc.ship.BuildFromCode(code)
	return nil
}

func (oc *outfittingContext) theBuildCodeErrorShouldPointAt(position int, segment string) error {
	var codeErr *shared.InvalidBuildCodeError
	if !errors.As(oc.err, &codeErr) {
		return fmt.Errorf("expected an invalid build code error, got %v", oc.err)
	}
	if codeErr.Segment != segment || codeErr.Position != position {
		return fmt.Errorf("expected error at %s[%d], got %s[%d]", segment, position, codeErr.Segment, codeErr.Position)
	}
	return nil
}

// Lightest configuration

func (oc *outfittingContext) iOptimizeForMass() error {
	oc.result, _, oc.err = oc.ship.OptimizeMass(outfitting.Overrides{})
	return nil
}

func (oc *outfittingContext) iOptimizeForMassWithPowerPlantRating(rating string) error {
	oc.result, _, oc.err = oc.ship.OptimizeMass(outfitting.Overrides{PowerPlantRating: rating})
	return nil
}

func (oc *outfittingContext) iOptimizeForMassPinning(table *godog.Table) error {
	overrides := outfitting.Overrides{Modules: map[outfitting.StandardSlot]string{}}
	for _, row := range table.Rows[1:] {
		ref, err := parseRef(cellValue(table, row, "slot"))
		if err != nil {
			return err
		}
		if ref.Kind != outfitting.RefStandard {
			return fmt.Errorf("only standard slots can be pinned")
		}
		overrides.Modules[outfitting.StandardSlot(ref.Index)] = cellValue(table, row, "module")
	}
	oc.result, _, oc.err = oc.ship.OptimizeMass(overrides)
	return nil
}

func (oc *outfittingContext) theSearchShouldConvergeAfterIterations(n int) error {
	if !oc.result.Converged {
		return fmt.Errorf("search did not converge")
	}
	if oc.result.Iterations != n {
		return fmt.Errorf("expected %d iterations, got %d", n, oc.result.Iterations)
	}
	return nil
}

func (oc *outfittingContext) everySlotShouldBeFeasible() error {
	return oc.result.Err()
}

func InitializeOutfittingScenario(ctx *godog.ScenarioContext) {
	oc := &outfittingContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		oc.reset()
		return ctx, nil
	})

	// Ship setup
	ctx.Step(`^a fresh test ship$`, oc.aFreshTestShip)
	ctx.Step(`^a test ship with the standard fit$`, oc.aTestShipWithTheStandardFit)
	ctx.Step(`^I install the following modules:$`, oc.iInstallTheFollowingModules)

	// Mutations
	ctx.Step(`^I install "([^"]*)" in the ([a-z ]+?)$`, oc.iInstallIn)
	ctx.Step(`^I install "([^"]*)" in ((?:hardpoint|internal) \d+)$`, oc.iInstallIn)
	ctx.Step(`^I remove the module in ((?:hardpoint|internal) \d+)$`, oc.iRemove)
	ctx.Step(`^I (enable|disable) the ([a-z ]+?)$`, oc.iToggle)
	ctx.Step(`^I (enable|disable) ((?:hardpoint|internal) \d+)$`, oc.iToggle)
	ctx.Step(`^I set the priority of the ([a-z ]+?) to (-?\d+)$`, oc.iSetThePriorityOfTo)
	ctx.Step(`^I set the priority of ((?:hardpoint|internal) \d+) to (-?\d+)$`, oc.iSetThePriorityOfTo)
	ctx.Step(`^I fit bulkhead (-?\d+)$`, oc.iFitBulkhead)
	ctx.Step(`^I apply a ship discount of ([\d.]+) and a module discount of ([\d.]+)$`, oc.iApplyDiscounts)

	// Assertions
	ctx.Step(`^the ([a-z ]+) should be (-?[\d.]+)$`, oc.theStatShouldBe)
	ctx.Step(`^the ship (can|cannot) (thrust|boost)$`, oc.theShipCan)
	ctx.Step(`^the ([a-z ]+?) should be (online|offline|disabled|unpowered) with hardpoints (retracted|deployed)$`,
		oc.theSlotShouldBeWithHardpoints)
	ctx.Step(`^((?:hardpoint|internal) \d+) should be (online|offline|disabled|unpowered) with hardpoints (retracted|deployed)$`,
		oc.theSlotShouldBeWithHardpoints)
	ctx.Step(`^the ([a-z ]+?) should hold "([^"]*)"$`, oc.theSlotShouldHold)
	ctx.Step(`^((?:hardpoint|internal) \d+) should hold "([^"]*)"$`, oc.theSlotShouldHold)
	ctx.Step(`^((?:hardpoint|internal) \d+) should be empty$`, oc.theSlotShouldBeEmpty)
	ctx.Step(`^the operation should succeed$`, oc.theOperationShouldSucceed)
	ctx.Step(`^the operation should fail with an? ([a-z ]+) error$`, oc.theOperationShouldFailWith)
	ctx.Step(`^the ship should be unchanged$`, oc.theShipShouldBeUnchanged)

	// Build codes
	ctx.Step(`^I export the build code$`, oc.iExportTheBuildCode)
	ctx.Step(`^the build code should be "([^"]*)"$`, oc.theBuildCodeShouldBe)
	ctx.Step(`^the build code should start with "([^"]*)"$`, oc.theBuildCodeShouldStartWith)
	ctx.Step(`^a fresh test ship built from the exported code should match it$`, oc.aFreshShipBuiltFromTheExportedCodeMatches)
	ctx.Step(`^I build the ship from code "([^"]*)"$`, oc.iBuildFromCode)
	ctx.Step(`^the build code error should point at position (\d+) of the (main|enabled|priorities) segment$`,
		oc.theBuildCodeErrorShouldPointAt)

	// Lightest configuration
	ctx.Step(`^I optimize the ship for mass$`, oc.iOptimizeForMass)
	ctx.Step(`^I optimize the ship for mass with power plant rating "([^"]*)"$`, oc.iOptimizeForMassWithPowerPlantRating)
	ctx.Step(`^I optimize the ship for mass pinning:$`, oc.iOptimizeForMassPinning)
	ctx.Step(`^the search should converge after (\d+) iterations$`, oc.theSearchShouldConvergeAfterIterations)
	ctx.Step(`^every searched slot should be feasible$`, oc.everySlotShouldBeFeasible)
}
