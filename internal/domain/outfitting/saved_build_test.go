package outfitting_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

func TestNewSavedBuild_CapturesShip(t *testing.T) {
	// Arrange
	ship := roundTripShip(t)
	clock := shared.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	code, _ := ship.BuildCode()

	// Act
	build, err := outfitting.NewSavedBuild("b-1", "  Trader  ", ship, clock)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "b-1", build.ID())
	assert.Equal(t, "Trader", build.Name())
	assert.Equal(t, ship.ID(), build.ShipID())
	assert.Equal(t, code, build.Code())
	assert.Equal(t, ship.Stats().TotalCost, build.TotalCost())
	assert.Equal(t, ship.Stats().UnladenMass, build.UnladenMass())
	assert.Equal(t, clock.Now(), build.CreatedAt())
}

func TestNewSavedBuild_Validation(t *testing.T) {
	ship, _ := fittedShip(t)
	clock := shared.NewMockClock(time.Now())

	tests := []struct {
		name  string
		id    string
		bname string
		ship  *outfitting.Ship
		field string
	}{
		{"missing id", "", "Trader", ship, "id"},
		{"blank name", "b-1", "   ", ship, "name"},
		{"nil ship", "b-1", "Trader", nil, "ship"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			build, err := outfitting.NewSavedBuild(tt.id, tt.bname, tt.ship, clock)

			assert.Nil(t, build)
			var validation *shared.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestReconstructSavedBuild_RequiresCode(t *testing.T) {
	_, err := outfitting.ReconstructSavedBuild("b-1", "Trader", "testship", "", 0, 0, time.Now())

	var validation *shared.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "code", validation.Field)
}

func TestSavedBuild_Rename(t *testing.T) {
	build, err := outfitting.ReconstructSavedBuild("b-1", "Trader", "testship", "0---..", 10, 1, time.Now())
	require.NoError(t, err)

	require.NoError(t, build.Rename(" Explorer "))
	assert.Equal(t, "Explorer", build.Name())

	assert.Error(t, build.Rename(""))
	assert.Equal(t, "Explorer", build.Name())
}
