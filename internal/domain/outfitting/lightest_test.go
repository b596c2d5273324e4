package outfitting_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/adapters/catalog"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/test/helpers"
)

func tokens(cfg outfitting.StandardConfiguration) map[outfitting.StandardSlot]string {
	out := make(map[outfitting.StandardSlot]string)
	for k, m := range cfg.Modules {
		if m != nil {
			out[outfitting.StandardSlot(k)] = m.StandardToken()
		}
	}
	return out
}

func searchInput(c *catalog.Catalog, baseMass, basePower float64) outfitting.LightestInput {
	in := outfitting.LightestInput{
		MaxClass:    [outfitting.StandardSlotCount]int{3, 3, 3, 2, 2, 2, 2},
		BoostEnergy: 10,
		BaseMass:    baseMass,
		BasePower:   basePower,
		Bulkhead:    c.Bulkhead(helpers.TestShipID, 0),
	}
	for k := range in.Enabled {
		in.Enabled[k] = true
	}
	return in
}

func TestOptimizeMass_FreshShip(t *testing.T) {
	// Arrange
	ship, _ := helpers.NewTestShip()

	// Act
	result, stats, err := ship.OptimizeMass(outfitting.Overrides{})

	// Assert
	require.NoError(t, err)
	require.NoError(t, result.Err())
	assert.Equal(t, map[outfitting.StandardSlot]string{
		outfitting.PowerPlant:       "1A",
		outfitting.Thrusters:        "2D",
		outfitting.FrameShiftDrive:  "3A",
		outfitting.LifeSupport:      "2D",
		outfitting.PowerDistributor: "2D",
		outfitting.Sensors:          "2D",
	}, tokens(result.Configuration))
	assert.Equal(t, 2, result.Iterations)
	assert.True(t, result.Converged)

	assert.InDelta(t, 110.5, stats.UnladenMass, delta)
	assert.True(t, stats.CanThrust)
	assert.True(t, stats.CanBoost)
	assert.Equal(t, "2D", moduleIn(t, ship, outfitting.StandardRef(outfitting.Thrusters)))
	assert.NoError(t, ship.VerifyInvariants())
}

func TestOptimizeMass_StripsOptionalModules(t *testing.T) {
	// Arrange
	ship := roundTripShip(t)

	// Act
	_, stats, err := ship.OptimizeMass(outfitting.Overrides{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, ship.BulkheadIndex())
	for _, slot := range append(ship.Hardpoints(), ship.Internal()...) {
		assert.True(t, slot.IsEmpty(), slot.Ref().String())
	}
	assert.Equal(t, "2C", moduleIn(t, ship, outfitting.StandardRef(outfitting.FuelTank)), "fuel tank is left alone")
	assert.Zero(t, stats.CargoCapacity)
	assert.True(t, stats.CanBoost)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestOptimizeMass_Overrides(t *testing.T) {
	ship, _ := helpers.NewTestShip()

	result, _, err := ship.OptimizeMass(outfitting.Overrides{
		Modules: map[outfitting.StandardSlot]string{
			outfitting.Thrusters: "3A",
			outfitting.Sensors:   "1D",
		},
	})

	require.NoError(t, err)
	got := tokens(result.Configuration)
	assert.Equal(t, "3A", got[outfitting.Thrusters])
	assert.Equal(t, "1D", got[outfitting.Sensors])
	// 3A thrusters draw 3 MW, pushing demand past the 1A plant
	assert.Equal(t, "2D", got[outfitting.PowerPlant])
}

func TestFindLightestConfiguration(t *testing.T) {
	c := helpers.NewFixtureCatalog()

	t.Run("lightest plant above demand", func(t *testing.T) {
		result := outfitting.FindLightestConfiguration(searchInput(c, 100, 3), c, outfitting.Overrides{})

		require.NoError(t, result.Err())
		assert.Equal(t, "2D", tokens(result.Configuration)[outfitting.PowerPlant])
		assert.Equal(t, "2D", tokens(result.Configuration)[outfitting.Thrusters])
		assert.True(t, result.Converged)
	})

	t.Run("power plant rating floor", func(t *testing.T) {
		result := outfitting.FindLightestConfiguration(searchInput(c, 100, 3), c,
			outfitting.Overrides{PowerPlantRating: "A"})

		require.NoError(t, result.Err())
		assert.Equal(t, "2A", tokens(result.Configuration)[outfitting.PowerPlant])
	})

	t.Run("no plant powerful enough", func(t *testing.T) {
		result := outfitting.FindLightestConfiguration(searchInput(c, 100, 20), c, outfitting.Overrides{})

		assert.Equal(t, []outfitting.StandardSlot{outfitting.PowerPlant}, result.Infeasible)
		assert.Equal(t, "3A", tokens(result.Configuration)[outfitting.PowerPlant], "best effort")

		var infeasible *shared.InfeasibleConfigurationError
		require.True(t, errors.As(result.Err(), &infeasible))
		assert.Equal(t, []string{outfitting.PowerPlant.String()}, infeasible.Slots)
	})

	t.Run("no thrusters strong enough", func(t *testing.T) {
		result := outfitting.FindLightestConfiguration(searchInput(c, 300, 3), c, outfitting.Overrides{})

		assert.Equal(t, []outfitting.StandardSlot{outfitting.Thrusters}, result.Infeasible)
		assert.Equal(t, "3A", tokens(result.Configuration)[outfitting.Thrusters], "largest max mass")
	})

	t.Run("pinned token the catalog lacks", func(t *testing.T) {
		result := outfitting.FindLightestConfiguration(searchInput(c, 100, 3), c, outfitting.Overrides{
			Modules: map[outfitting.StandardSlot]string{outfitting.LifeSupport: "2B"},
		})

		assert.Equal(t, []outfitting.StandardSlot{outfitting.LifeSupport}, result.Infeasible)
		assert.Nil(t, result.Configuration.Modules[outfitting.LifeSupport])
	})

	t.Run("disabled slots do not count toward demand", func(t *testing.T) {
		in := searchInput(c, 100, 0.5)
		in.Enabled[outfitting.Thrusters] = false

		result := outfitting.FindLightestConfiguration(in, c, outfitting.Overrides{})

		// 0.5 + 1.8 without the thrusters' 2 MW fits the 1A plant
		assert.Equal(t, "1A", tokens(result.Configuration)[outfitting.PowerPlant])
	})
}

func TestLightestInput_ExcludesSearchedSlots(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	_, err := ship.UseBulkhead(1)
	require.NoError(t, err)
	install(t, ship, outfitting.InternalRef(0), c.Internal("c3"))

	// Act
	in, err := ship.LightestInput()

	// Assert
	require.NoError(t, err)
	// hull 100, fuel 4 and cargo 8; the bulkhead and searched modules come off
	assert.InDelta(t, 112.0, in.BaseMass, delta)
	assert.InDelta(t, 0.5, in.BasePower, delta)
	assert.Equal(t, 10.0, in.BoostEnergy)
	assert.Equal(t, 3, in.MaxClass[outfitting.PowerPlant])
	assert.Equal(t, 0.0, in.Bulkhead.Mass)
}

func TestApplyStandardConfiguration_RejectsWrongModules(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	before := ship.Stats()
	var cfg outfitting.StandardConfiguration
	cfg.Modules[outfitting.Sensors] = c.Standard(outfitting.PowerPlant, "2A")

	// Act
	_, err := ship.ApplyStandardConfiguration(cfg)

	// Assert
	var notAllowed *shared.ModuleNotAllowedError
	require.True(t, errors.As(err, &notAllowed))
	assert.Equal(t, before, ship.Stats())
}
