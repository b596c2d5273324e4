package outfitting_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

func status(t *testing.T, ship *outfitting.Ship, ref outfitting.SlotRef, deployed bool) outfitting.PowerStatus {
	t.Helper()
	s, err := ship.SlotStatus(ref, deployed)
	require.NoError(t, err)
	return s
}

func TestPower_HardpointsDrawOnlyWhenDeployed(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)

	// Act
	stats := install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))

	// Assert
	assert.InDelta(t, 4.8, stats.PowerRetracted, delta)
	assert.InDelta(t, 5.8, stats.PowerDeployed, delta)
	assert.InDelta(t, 18.0, stats.TotalDPS, delta)
	assert.Equal(t, outfitting.PowerStatusNone, status(t, ship, outfitting.HardpointRef(0), false))
	assert.Equal(t, outfitting.PowerStatusOnline, status(t, ship, outfitting.HardpointRef(0), true))
}

func TestPower_PassiveHardpointsDrawWhileRetracted(t *testing.T) {
	ship, c := fittedShip(t)

	stats := install(t, ship, outfitting.HardpointRef(2), c.Hardpoint("0k"))

	assert.InDelta(t, 5.0, stats.PowerRetracted, delta)
	assert.InDelta(t, 5.0, stats.PowerDeployed, delta)
	assert.Equal(t, outfitting.PowerStatusOnline, status(t, ship, outfitting.HardpointRef(2), false))
}

func TestPower_ToggleEnabledRestoresTotalsExactly(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))
	install(t, ship, outfitting.HardpointRef(1), c.Hardpoint("1b"))
	before := ship.Stats()

	// Act
	disabled, err := ship.SetEnabled(outfitting.HardpointRef(0), false)
	require.NoError(t, err)
	require.NoError(t, ship.VerifyInvariants())
	restored, err := ship.SetEnabled(outfitting.HardpointRef(0), true)
	require.NoError(t, err)

	// Assert
	assert.InDelta(t, 8.0, disabled.TotalDPS, delta)
	assert.InDelta(t, before.PowerDeployed-1, disabled.PowerDeployed, delta)
	assert.Equal(t, before, restored)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestPower_DisabledSlotStatus(t *testing.T) {
	ship, _ := fittedShip(t)
	ref := outfitting.StandardRef(outfitting.Sensors)

	stats, err := ship.SetEnabled(ref, false)

	require.NoError(t, err)
	assert.InDelta(t, 4.5, stats.PowerRetracted, delta)
	assert.Equal(t, outfitting.PowerStatusDisabled, status(t, ship, ref, false))
	assert.Equal(t, outfitting.PowerStatusDisabled, status(t, ship, ref, true))
}

func TestPower_DisabledThrustersCannotThrust(t *testing.T) {
	ship, _ := fittedShip(t)

	stats, err := ship.SetEnabled(outfitting.StandardRef(outfitting.Thrusters), false)

	require.NoError(t, err)
	assert.False(t, stats.CanThrust)
	assert.False(t, stats.CanBoost)
}

func TestPower_DisabledEmptySlotKeepsFlag(t *testing.T) {
	// Arrange: disabling an empty slot records the flag for whatever goes in later
	ship, c := fittedShip(t)
	_, err := ship.SetEnabled(outfitting.HardpointRef(0), false)
	require.NoError(t, err)

	// Act
	stats := install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))

	// Assert
	assert.Zero(t, stats.TotalDPS)
	assert.InDelta(t, 4.8, stats.PowerDeployed, delta)
}

func TestPower_PriorityBandsArePrefixSums(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))

	// Act
	_, err := ship.SetPriority(outfitting.HardpointRef(0), 2)
	require.NoError(t, err)

	// Assert
	bands := ship.Bands()
	require.Len(t, bands, outfitting.BandCount)
	assert.InDelta(t, 4.8, bands[0].Retracted, delta)
	assert.InDelta(t, 0.0, bands[0].Deployed, delta)
	assert.InDelta(t, 4.8, bands[0].RetractedSum, delta)
	assert.InDelta(t, 4.8, bands[0].DeployedSum, delta)
	assert.InDelta(t, 4.8, bands[1].DeployedSum, delta)
	assert.InDelta(t, 1.0, bands[2].Deployed, delta)
	assert.InDelta(t, 4.8, bands[2].RetractedSum, delta)
	assert.InDelta(t, 5.8, bands[2].DeployedSum, delta)
	assert.InDelta(t, 5.8, bands[4].DeployedSum, delta)
	assert.NoError(t, ship.VerifyInvariants())
}

func TestPower_OutOfRangePriorityRejected(t *testing.T) {
	// Arrange
	ship, c := fittedShip(t)
	install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))
	before := ship.Stats()
	code, err := ship.BuildCode()
	require.NoError(t, err)

	for _, priority := range []int{-1, outfitting.BandCount, 9} {
		// Act
		_, err := ship.SetPriority(outfitting.HardpointRef(0), priority)

		// Assert
		var rangeErr *shared.PriorityOutOfRangeError
		require.True(t, errors.As(err, &rangeErr), "priority %d", priority)
		slot, _ := ship.Slot(outfitting.HardpointRef(0))
		assert.Equal(t, 0, slot.Priority())
		assert.Equal(t, before, ship.Stats())
		after, _ := ship.BuildCode()
		assert.Equal(t, code, after)
	}
}

func TestPower_BandOfflineWhenDrawReachesOutput(t *testing.T) {
	// Arrange: a 5 MW plant against 4.8 retracted and 1 deployed
	ship, c := fittedShip(t)
	install(t, ship, outfitting.StandardRef(outfitting.PowerPlant), c.Standard(outfitting.PowerPlant, "1A"))
	install(t, ship, outfitting.HardpointRef(0), c.Hardpoint("2a"))

	thrusters := outfitting.StandardRef(outfitting.Thrusters)
	weapon := outfitting.HardpointRef(0)

	// Everything in band 0: fine retracted, all offline deployed
	assert.Equal(t, outfitting.PowerStatusOnline, status(t, ship, thrusters, false))
	assert.Equal(t, outfitting.PowerStatusOffline, status(t, ship, thrusters, true))
	assert.Equal(t, outfitting.PowerStatusOffline, status(t, ship, weapon, true))
	assert.True(t, ship.CanThrust())

	// Act: move the weapon to band 1
	_, err := ship.SetPriority(weapon, 1)
	require.NoError(t, err)

	// Assert: band 0 stays online, the weapon's band goes offline alone
	assert.Equal(t, outfitting.PowerStatusOnline, status(t, ship, thrusters, true))
	assert.Equal(t, outfitting.PowerStatusOffline, status(t, ship, weapon, true))
}

func TestPower_DrawEqualToOutputIsOffline(t *testing.T) {
	// Arrange: 4.8 plus a passive 0.2 scanner is exactly the 5 MW output
	ship, c := fittedShip(t)
	install(t, ship, outfitting.StandardRef(outfitting.PowerPlant), c.Standard(outfitting.PowerPlant, "1A"))

	// Act
	stats := install(t, ship, outfitting.HardpointRef(3), c.Hardpoint("0k"))

	// Assert
	assert.InDelta(t, 5.0, stats.PowerRetracted, delta)
	assert.Equal(t, outfitting.PowerStatusOffline, status(t, ship, outfitting.StandardRef(outfitting.Thrusters), false))
	assert.False(t, stats.CanThrust)
}

func TestPower_CargoHatchHasPowerState(t *testing.T) {
	ship, _ := fittedShip(t)

	stats, err := ship.SetEnabled(outfitting.CargoHatchRef, false)

	require.NoError(t, err)
	assert.InDelta(t, 4.3, stats.PowerRetracted, delta)

	_, err = ship.SetPriority(outfitting.CargoHatchRef, 4)
	require.NoError(t, err)
}

func TestPower_FixedSlotsHaveNoPowerState(t *testing.T) {
	ship, _ := fittedShip(t)

	for _, ref := range []outfitting.SlotRef{outfitting.BulkheadRef, outfitting.HullRef} {
		_, err := ship.SetEnabled(ref, false)
		var slotErr *shared.InvalidSlotError
		assert.True(t, errors.As(err, &slotErr))

		_, err = ship.SetPriority(ref, 1)
		assert.True(t, errors.As(err, &slotErr))
	}
}

func TestShield_GeneratorBoostersAndEnabledFlags(t *testing.T) {
	// Arrange: the 100t hull sits at the generator's optimal mass
	ship, c := fittedShip(t)

	// Act / Assert
	stats := install(t, ship, outfitting.InternalRef(0), c.Internal("g2"))
	assert.InDelta(t, 100.0, stats.ShieldStrength, 1e-6)

	stats = install(t, ship, outfitting.HardpointRef(2), c.Hardpoint("0s"))
	assert.InDelta(t, 110.0, stats.ShieldStrength, 1e-6)

	stats = install(t, ship, outfitting.HardpointRef(3), c.Hardpoint("0t"))
	assert.InDelta(t, 130.0, stats.ShieldStrength, 1e-6)

	stats, err := ship.SetEnabled(outfitting.HardpointRef(3), false)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, stats.ShieldStrength, 1e-6)

	stats, err = ship.SetEnabled(outfitting.InternalRef(0), false)
	require.NoError(t, err)
	assert.Zero(t, stats.ShieldStrength)

	stats, err = ship.SetEnabled(outfitting.InternalRef(0), true)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, stats.ShieldStrength, 1e-6)

	stats, err = ship.Remove(outfitting.InternalRef(0))
	require.NoError(t, err)
	assert.Zero(t, stats.ShieldStrength)
	assert.NoError(t, ship.VerifyInvariants())
}
