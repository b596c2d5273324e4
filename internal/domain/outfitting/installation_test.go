package outfitting_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/test/helpers"
)

func moduleIn(t *testing.T, ship *outfitting.Ship, ref outfitting.SlotRef) string {
	t.Helper()
	slot, err := ship.Slot(ref)
	require.NoError(t, err)
	if slot.IsEmpty() {
		return ""
	}
	return slot.Module().Token()
}

func TestInstall_InstallThenRemoveRestoresStats(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	before := ship.Stats()

	// Act
	stats := install(t, ship, outfitting.InternalRef(1), c.Internal("h2"))

	// Assert
	assert.InDelta(t, before.UnladenMass+4, stats.UnladenMass, delta)
	assert.InDelta(t, 160.0, stats.Armour, delta)
	assert.Equal(t, before.TotalCost+1500, stats.TotalCost)

	after, err := ship.Remove(outfitting.InternalRef(1))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInstall_ReplacingSwapsContributions(t *testing.T) {
	ship, c := fittedShip(t)
	install(t, ship, outfitting.InternalRef(0), c.Internal("c3"))

	stats := install(t, ship, outfitting.InternalRef(0), c.Internal("c2"))

	assert.InDelta(t, 4.0, stats.CargoCapacity, delta)
	assert.Equal(t, int64(20300), stats.TotalCost)
}

func TestInstall_UniqueModulesVacateTheirFamily(t *testing.T) {
	t.Run("shield generator variants share one allowance", func(t *testing.T) {
		ship, c := fittedShip(t)
		install(t, ship, outfitting.InternalRef(0), c.Internal("g2"))

		stats := install(t, ship, outfitting.InternalRef(1), c.Internal("p2"))

		assert.Equal(t, "", moduleIn(t, ship, outfitting.InternalRef(0)))
		assert.Equal(t, "p2", moduleIn(t, ship, outfitting.InternalRef(1)))
		assert.InDelta(t, 150.0, stats.ShieldStrength, 1e-6)
	})

	t.Run("fuel scoops", func(t *testing.T) {
		ship, c := fittedShip(t)
		install(t, ship, outfitting.InternalRef(2), c.Internal("s1"))

		install(t, ship, outfitting.InternalRef(0), c.Internal("s2"))

		assert.Equal(t, "s2", moduleIn(t, ship, outfitting.InternalRef(0)))
		assert.Equal(t, "", moduleIn(t, ship, outfitting.InternalRef(2)))
	})

	t.Run("cargo racks are not unique", func(t *testing.T) {
		ship, c := fittedShip(t)
		install(t, ship, outfitting.InternalRef(1), c.Internal("c2"))

		stats := install(t, ship, outfitting.InternalRef(2), c.Internal("c2"))

		assert.InDelta(t, 8.0, stats.CargoCapacity, delta)
	})
}

func TestInstall_RejectsIneligibleModules(t *testing.T) {
	ship, c := fittedShip(t)

	tests := []struct {
		name string
		ref  outfitting.SlotRef
		m    *outfitting.Module
	}{
		{"class too large", outfitting.InternalRef(3), c.Internal("c3")},
		{"group not eligible", outfitting.InternalRef(3), c.Internal("h1")},
		{"weapon in a utility mount", outfitting.HardpointRef(2), c.Hardpoint("1a")},
		{"utility in a weapon hardpoint", outfitting.HardpointRef(0), c.Hardpoint("0s")},
		{"weapon too large", outfitting.HardpointRef(1), c.Hardpoint("2a")},
		{"wrong standard group", outfitting.StandardRef(outfitting.Thrusters), c.Standard(outfitting.PowerPlant, "3A")},
		{"internal in a hardpoint", outfitting.HardpointRef(0), c.Internal("c1")},
		{"hardpoint in an internal", outfitting.InternalRef(0), c.Hardpoint("1a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			require.NotNil(t, tt.m)
			before := ship.Stats()
			code, _ := ship.BuildCode()

			// Act
			_, err := ship.Install(tt.ref, tt.m)

			// Assert
			var notAllowed *shared.ModuleNotAllowedError
			require.True(t, errors.As(err, &notAllowed), "got %v", err)
			assert.Equal(t, tt.ref.String(), notAllowed.Slot)
			assert.Equal(t, before, ship.Stats())
			after, _ := ship.BuildCode()
			assert.Equal(t, code, after)
		})
	}
}

func TestInstall_FixedSlotsRejectModules(t *testing.T) {
	ship, c := fittedShip(t)

	for _, ref := range []outfitting.SlotRef{outfitting.BulkheadRef, outfitting.CargoHatchRef, outfitting.HullRef} {
		_, err := ship.Install(ref, c.CargoHatch())

		var slotErr *shared.InvalidSlotError
		assert.True(t, errors.As(err, &slotErr), ref.String())
	}
}

func TestUseBulkhead(t *testing.T) {
	t.Run("swaps mass cost and armour", func(t *testing.T) {
		ship, _ := helpers.NewTestShip()

		stats, err := ship.UseBulkhead(1)

		require.NoError(t, err)
		assert.Equal(t, 1, ship.BulkheadIndex())
		assert.InDelta(t, 110.0, stats.UnladenMass, delta)
		assert.InDelta(t, 140.0, stats.Armour, delta)
		assert.Equal(t, int64(11000), stats.TotalCost)
		assert.NoError(t, ship.VerifyInvariants())
	})

	t.Run("reinforcement adds to the multiplied base", func(t *testing.T) {
		ship, c := helpers.NewTestShip()
		_, err := ship.UseBulkhead(1)
		require.NoError(t, err)

		stats := install(t, ship, outfitting.InternalRef(0), c.Internal("h1"))

		assert.InDelta(t, 140.0+30, stats.Armour, delta)
	})

	t.Run("unknown index", func(t *testing.T) {
		ship, _ := helpers.NewTestShip()

		for _, index := range []int{-1, 5} {
			_, err := ship.UseBulkhead(index)

			var bulkheadErr *shared.InvalidBulkheadError
			assert.True(t, errors.As(err, &bulkheadErr), "index %d", index)
			assert.Equal(t, 0, ship.BulkheadIndex())
		}
	})
}

func TestCost_ExcludedSlotsDoNotCount(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))

	// Act
	excluded, err := ship.SetCostIncluded(outfitting.HardpointRef(0), false)
	require.NoError(t, err)
	included, err := ship.SetCostIncluded(outfitting.HardpointRef(0), true)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(20000), excluded.TotalCost)
	assert.Equal(t, int64(24000), included.TotalCost)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestCost_Discounts(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)

	// Act
	stats, err := ship.ApplyDiscounts(0.9, 0.85)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(17500), stats.TotalCost)
	assert.Equal(t, 0.9, ship.ShipCostMultiplier())

	// modules installed later pick up the discount
	stats = install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))
	assert.Equal(t, int64(20900), stats.TotalCost)
	slot, _ := ship.Slot(outfitting.HardpointRef(0))
	assert.Equal(t, int64(3400), slot.DiscountedCost())

	t.Run("multipliers must be positive", func(t *testing.T) {
		for _, pair := range [][2]float64{{0, 1}, {1, -0.5}} {
			_, err := ship.ApplyDiscounts(pair[0], pair[1])

			var validation *shared.ValidationError
			assert.True(t, errors.As(err, &validation))
		}
		assert.Equal(t, int64(20900), ship.Stats().TotalCost)
	})
}

func TestBatch_KeepsChangesBeforeAFailure(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)

	// Act
	stats, err := ship.Batch(func(b *outfitting.Batch) error {
		if err := b.Install(outfitting.InternalRef(1), c.Internal("h2")); err != nil {
			return err
		}
		return b.Install(outfitting.InternalRef(3), c.Internal("c3"))
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, "h2", moduleIn(t, ship, outfitting.InternalRef(1)))
	assert.Equal(t, "", moduleIn(t, ship, outfitting.InternalRef(3)))
	assert.InDelta(t, 160.0, stats.Armour, delta)
	assert.Equal(t, ship.Stats(), stats)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestBatch_FlushesOnce(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)

	// Act
	stats, err := ship.Batch(func(b *outfitting.Batch) error {
		if err := b.Install(outfitting.HardpointRef(0), c.Hardpoint("2a")); err != nil {
			return err
		}
		if err := b.SetPriority(outfitting.HardpointRef(0), 3); err != nil {
			return err
		}
		if err := b.SetEnabled(outfitting.StandardRef(outfitting.Sensors), false); err != nil {
			return err
		}
		return b.UseBulkhead(1)
	})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 5.5, stats.PowerDeployed, delta)
	assert.InDelta(t, 4.5, ship.Bands()[3].RetractedSum, delta)
	assert.InDelta(t, 129.0, stats.UnladenMass, delta)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestBuildWith_RejectsBadSelections(t *testing.T) {
	ship, c := fittedShip(t)
	flagCount := ship.Layout().FlagCount()

	tests := []struct {
		name  string
		sel   outfitting.Selection
		flags outfitting.SlotFlags
	}{
		{"short hardpoint list", outfitting.Selection{Hardpoints: make([]*outfitting.Module, 3)}, outfitting.SlotFlags{}},
		{"long internal list", outfitting.Selection{Internal: make([]*outfitting.Module, 5)}, outfitting.SlotFlags{}},
		{"bulkhead out of range", outfitting.Selection{Bulkhead: 6}, outfitting.SlotFlags{}},
		{"short enabled flags", outfitting.Selection{}, outfitting.SlotFlags{Enabled: make([]bool, 3)}},
		{"priority out of range", outfitting.Selection{}, outfitting.SlotFlags{Priorities: append(make([]int, flagCount-1), 7)}},
		{"ineligible module", outfitting.Selection{
			Internal: []*outfitting.Module{nil, nil, nil, c.Internal("h1")},
		}, outfitting.SlotFlags{}},
		{"two shield generators", outfitting.Selection{
			Internal: []*outfitting.Module{c.Internal("g3"), c.Internal("b2"), nil, nil},
		}, outfitting.SlotFlags{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ship.Stats()
			code, _ := ship.BuildCode()

			_, err := ship.BuildWith(tt.sel, tt.flags)

			assert.Error(t, err)
			assert.Equal(t, before, ship.Stats())
			after, _ := ship.BuildCode()
			assert.Equal(t, code, after)
		})
	}
}

func TestBuildWith_ReplacesTheWholeFit(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))
	flags := make([]int, ship.Layout().FlagCount())
	flags[1] = 2

	// Act
	stats, err := ship.BuildWith(outfitting.Selection{
		Bulkhead: 1,
		Standard: [outfitting.StandardSlotCount]*outfitting.Module{
			c.Standard(outfitting.PowerPlant, "2D"),
		},
		Internal: []*outfitting.Module{c.Internal("c3"), nil, nil, nil},
	}, outfitting.SlotFlags{Priorities: flags})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "", moduleIn(t, ship, outfitting.HardpointRef(0)))
	assert.Equal(t, "2D", moduleIn(t, ship, outfitting.StandardRef(outfitting.PowerPlant)))
	assert.InDelta(t, 111.0, stats.UnladenMass, delta)
	assert.InDelta(t, 8.0, stats.CargoCapacity, delta)
	assert.InDelta(t, 8.0, stats.PowerAvailable, delta)
	assert.InDelta(t, 0.5, stats.PowerRetracted, delta)
	assert.Equal(t, int64(12200), stats.TotalCost)

	slot := ship.Standard(outfitting.PowerPlant)
	assert.Equal(t, 2, slot.Priority())
	assert.NoError(t, ship.VerifyInvariants())
}

func TestUseStandard(t *testing.T) {
	t.Run("largest module of the rating", func(t *testing.T) {
		ship, _ := fittedShip(t)

		_, err := ship.UseStandard("A")

		require.NoError(t, err)
		assert.Equal(t, "3A", moduleIn(t, ship, outfitting.StandardRef(outfitting.Thrusters)))
		assert.Equal(t, "2A", moduleIn(t, ship, outfitting.StandardRef(outfitting.Sensors)))
		assert.Equal(t, "2C", moduleIn(t, ship, outfitting.StandardRef(outfitting.FuelTank)))
		assert.NoError(t, ship.VerifyInvariants())
	})

	t.Run("rating the catalog lacks empties the slots", func(t *testing.T) {
		ship, _ := fittedShip(t)

		stats, err := ship.UseStandard("B")

		require.NoError(t, err)
		for k := outfitting.PowerPlant; k < outfitting.FuelTank; k++ {
			assert.Equal(t, "", moduleIn(t, ship, outfitting.StandardRef(k)), k.String())
		}
		assert.Equal(t, "2C", moduleIn(t, ship, outfitting.StandardRef(outfitting.FuelTank)))
		assert.False(t, stats.CanThrust)
	})
}

func TestUseUtility(t *testing.T) {
	// Arrange
	ship, _ := fittedShip(t)

	// Act
	_, err := ship.UseUtility(outfitting.GroupShieldBooster, "A", "", false)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "0t", moduleIn(t, ship, outfitting.HardpointRef(2)))
	assert.Equal(t, "0t", moduleIn(t, ship, outfitting.HardpointRef(3)))
	assert.Equal(t, "", moduleIn(t, ship, outfitting.HardpointRef(0)))

	_, err = ship.UseUtility("kw", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, "0t", moduleIn(t, ship, outfitting.HardpointRef(2)), "occupied mounts kept without clobber")

	_, err = ship.UseUtility("zz", "", "", true)
	require.NoError(t, err)
	assert.Equal(t, "0t", moduleIn(t, ship, outfitting.HardpointRef(2)), "unknown group changes nothing")

	_, err = ship.UseUtility("kw", "", "", true)
	require.NoError(t, err)
	assert.Equal(t, "0k", moduleIn(t, ship, outfitting.HardpointRef(3)))
	assert.NoError(t, ship.VerifyInvariants())
}

func TestUseWeapon(t *testing.T) {
	// Arrange
	ship, _ := fittedShip(t)

	// Act / Assert
	_, err := ship.UseWeapon("pl", "F", "", false)
	require.NoError(t, err)
	assert.Equal(t, "2a", moduleIn(t, ship, outfitting.HardpointRef(0)))
	assert.Equal(t, "1a", moduleIn(t, ship, outfitting.HardpointRef(1)))
	assert.Equal(t, "", moduleIn(t, ship, outfitting.HardpointRef(2)))

	// no class 1 multi-cannon: the small hardpoint keeps its laser
	_, err = ship.UseWeapon("mc", "T", "", true)
	require.NoError(t, err)
	assert.Equal(t, "2b", moduleIn(t, ship, outfitting.HardpointRef(0)))
	assert.Equal(t, "1a", moduleIn(t, ship, outfitting.HardpointRef(1)))

	// steps down to class 1 seekers in the class 2 hardpoint
	stats, err := ship.UseWeapon("mr", "", "S", true)
	require.NoError(t, err)
	assert.Equal(t, "m2", moduleIn(t, ship, outfitting.HardpointRef(0)))
	assert.Equal(t, "m2", moduleIn(t, ship, outfitting.HardpointRef(1)))
	assert.InDelta(t, 30.0, stats.TotalDPS, delta)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestEmpty(t *testing.T) {
	arrange := func(t *testing.T) *outfitting.Ship {
		ship, c := fittedShip(t)
		install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))
		install(t, ship, outfitting.HardpointRef(2), c.Hardpoint("0s"))
		install(t, ship, outfitting.InternalRef(0), c.Internal("g2"))
		return ship
	}

	t.Run("utility", func(t *testing.T) {
		ship := arrange(t)
		ship.EmptyUtility()
		assert.Equal(t, "2a", moduleIn(t, ship, outfitting.HardpointRef(0)))
		assert.Equal(t, "", moduleIn(t, ship, outfitting.HardpointRef(2)))
	})

	t.Run("weapons", func(t *testing.T) {
		ship := arrange(t)
		stats := ship.EmptyWeapons()
		assert.Equal(t, "", moduleIn(t, ship, outfitting.HardpointRef(0)))
		assert.Equal(t, "0s", moduleIn(t, ship, outfitting.HardpointRef(2)))
		assert.Zero(t, stats.TotalDPS)
	})

	t.Run("hardpoints", func(t *testing.T) {
		ship := arrange(t)
		stats := ship.EmptyHardpoints()
		assert.Equal(t, "", moduleIn(t, ship, outfitting.HardpointRef(2)))
		assert.InDelta(t, 100.0, stats.ShieldStrength, 1e-6)
	})

	t.Run("internal", func(t *testing.T) {
		ship := arrange(t)
		stats := ship.EmptyInternal()
		assert.Zero(t, stats.ShieldStrength)
		assert.NoError(t, ship.VerifyInvariants())
	})
}

// TestShip_RandomEditsKeepInvariants applies a long run of random edits, checking the
// incremental aggregates after each and that the build code reproduces the ship.
func TestShip_RandomEditsKeepInvariants(t *testing.T) {
	ship, c := fittedShip(t)
	rng := rand.New(rand.NewSource(42))

	standardTokens := map[outfitting.StandardSlot][]string{
		outfitting.PowerPlant:       {"1A", "2A", "2D", "3A", "3D", "3E"},
		outfitting.Thrusters:        {"2A", "2D", "3A", "3D"},
		outfitting.FrameShiftDrive:  {"2A", "3A", "3D"},
		outfitting.LifeSupport:      {"1D", "2A", "2D"},
		outfitting.PowerDistributor: {"1D", "2A", "2D", "2E"},
		outfitting.Sensors:          {"1D", "2A", "2D"},
		outfitting.FuelTank:         {"1C", "2C"},
	}
	hardpoints := []string{"1a", "1b", "2a", "2b", "m1", "m2", "0s", "0t", "0h", "0k"}
	internals := []string{"c1", "c2", "c3", "g2", "g3", "p2", "b2", "s1", "s2", "r1", "h1", "h2", "f1"}

	for step := 0; step < 500; step++ {
		var err error
		switch op := rng.Intn(7); op {
		case 0:
			k := outfitting.StandardSlot(rng.Intn(outfitting.StandardSlotCount))
			tokens := standardTokens[k]
			_, err = ship.Install(outfitting.StandardRef(k), c.Standard(k, tokens[rng.Intn(len(tokens))]))
		case 1:
			_, err = ship.Install(outfitting.HardpointRef(rng.Intn(4)), c.Hardpoint(hardpoints[rng.Intn(len(hardpoints))]))
		case 2:
			_, err = ship.Install(outfitting.InternalRef(rng.Intn(4)), c.Internal(internals[rng.Intn(len(internals))]))
		case 3:
			refs := []outfitting.SlotRef{outfitting.HardpointRef(rng.Intn(4)), outfitting.InternalRef(rng.Intn(4))}
			_, err = ship.Remove(refs[rng.Intn(2)])
		case 4:
			_, err = ship.SetEnabled(randomPowerRef(rng), rng.Intn(3) > 0)
		case 5:
			_, err = ship.SetPriority(randomPowerRef(rng), rng.Intn(outfitting.BandCount))
		case 6:
			_, err = ship.UseBulkhead(rng.Intn(len(outfitting.ArmourMultipliers)))
		}
		var notAllowed *shared.ModuleNotAllowedError
		if err != nil && !errors.As(err, &notAllowed) {
			t.Fatalf("step %d: unexpected error %v", step, err)
		}
		require.NoError(t, ship.VerifyInvariants(), "step %d", step)

		if step%50 == 49 {
			assertRoundTrip(t, ship, fmt.Sprintf("step %d", step))
		}
	}
}

func randomPowerRef(rng *rand.Rand) outfitting.SlotRef {
	switch rng.Intn(4) {
	case 0:
		return outfitting.StandardRef(outfitting.StandardSlot(rng.Intn(outfitting.StandardSlotCount)))
	case 1:
		return outfitting.HardpointRef(rng.Intn(4))
	case 2:
		return outfitting.InternalRef(rng.Intn(4))
	}
	return outfitting.CargoHatchRef
}

func assertRoundTrip(t *testing.T, ship *outfitting.Ship, msg string) {
	t.Helper()
	code, err := ship.BuildCode()
	require.NoError(t, err, msg)

	copyShip, _ := helpers.NewTestShip()
	stats, err := copyShip.BuildFromCode(code)
	require.NoError(t, err, msg)

	if diff := cmp.Diff(ship.Stats(), stats); diff != "" {
		t.Fatalf("%s: stats differ after round trip (-want +got):\n%s", msg, diff)
	}
	copyCode, err := copyShip.BuildCode()
	require.NoError(t, err, msg)
	assert.Equal(t, code, copyCode, msg)
}
