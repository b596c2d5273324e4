package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/test/helpers"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func savedBuild(t *testing.T, id, name, shipID string, age time.Duration) *outfitting.SavedBuild {
	t.Helper()
	build, err := outfitting.ReconstructSavedBuild(id, name, shipID, "03A3D3A2D2D2D2C--------..", 21000, 119.5, epoch.Add(-age))
	require.NoError(t, err)
	return build
}

func TestBuildRepository_SaveAndFind(t *testing.T) {
	// Arrange
	repo, _ := helpers.NewTestBuildRepository(t)
	build := savedBuild(t, "b-1", "Trader", "testship", 0)

	// Act
	err := repo.Save(context.Background(), build)
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), "b-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, build.Name(), found.Name())
	assert.Equal(t, build.ShipID(), found.ShipID())
	assert.Equal(t, build.Code(), found.Code())
	assert.Equal(t, build.TotalCost(), found.TotalCost())
	assert.InDelta(t, build.UnladenMass(), found.UnladenMass(), 1e-9)
	assert.True(t, build.CreatedAt().Equal(found.CreatedAt()))
}

func TestBuildRepository_SaveUpdatesExistingRow(t *testing.T) {
	// Arrange
	repo, _ := helpers.NewTestBuildRepository(t)
	build := savedBuild(t, "b-1", "Trader", "testship", 0)
	require.NoError(t, repo.Save(context.Background(), build))

	// Act
	require.NoError(t, build.Rename("Explorer"))
	require.NoError(t, repo.Save(context.Background(), build))

	// Assert
	builds, err := repo.ListByShip(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "Explorer", builds[0].Name())
}

func TestBuildRepository_NotFound(t *testing.T) {
	// Arrange
	repo, _ := helpers.NewTestBuildRepository(t)

	// Act
	_, findErr := repo.FindByID(context.Background(), "missing")
	deleteErr := repo.Delete(context.Background(), "missing")

	// Assert
	var notFound *shared.BuildNotFoundError
	require.True(t, errors.As(findErr, &notFound))
	assert.Equal(t, "missing", notFound.BuildID)
	assert.True(t, errors.As(deleteErr, &notFound))
}

func TestBuildRepository_ListByShip(t *testing.T) {
	// Arrange
	repo, _ := helpers.NewTestBuildRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, savedBuild(t, "old", "Old", "testship", 2*time.Hour)))
	require.NoError(t, repo.Save(ctx, savedBuild(t, "new", "New", "testship", 0)))
	require.NoError(t, repo.Save(ctx, savedBuild(t, "other", "Other", "sidewinder", time.Hour)))

	// Act
	mine, err := repo.ListByShip(ctx, "testship")
	require.NoError(t, err)
	all, err := repo.ListByShip(ctx, "")
	require.NoError(t, err)

	// Assert
	require.Len(t, mine, 2)
	assert.Equal(t, "new", mine[0].ID())
	assert.Equal(t, "old", mine[1].ID())

	ids := make([]string, len(all))
	for i, b := range all {
		ids[i] = b.ID()
	}
	assert.Equal(t, []string{"new", "other", "old"}, ids)
}

func TestBuildRepository_Delete(t *testing.T) {
	// Arrange
	repo, _ := helpers.NewTestBuildRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, savedBuild(t, "b-1", "Trader", "testship", 0)))

	// Act
	err := repo.Delete(ctx, "b-1")

	// Assert
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, "b-1")
	var notFound *shared.BuildNotFoundError
	assert.True(t, errors.As(err, &notFound))
}
