package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// GormBuildRepository implements BuildRepository using GORM
type GormBuildRepository struct {
	db *gorm.DB
}

// NewGormBuildRepository creates a new GORM saved build repository
func NewGormBuildRepository(db *gorm.DB) *GormBuildRepository {
	return &GormBuildRepository{db: db}
}

// Save persists a build, replacing any row with the same id
func (r *GormBuildRepository) Save(ctx context.Context, build *outfitting.SavedBuild) error {
	model := r.buildToModel(build)

	// Upsert: create or update
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save build: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a build by id
func (r *GormBuildRepository) FindByID(ctx context.Context, id string) (*outfitting.SavedBuild, error) {
	var model SavedBuildModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewBuildNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find build: %w", result.Error)
	}

	return r.modelToBuild(&model)
}

// ListByShip retrieves the builds of a ship type, newest first
func (r *GormBuildRepository) ListByShip(ctx context.Context, shipID string) ([]*outfitting.SavedBuild, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("name")
	if shipID != "" {
		query = query.Where("ship_id = ?", shipID)
	}

	var models []SavedBuildModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list builds: %w", result.Error)
	}

	builds := make([]*outfitting.SavedBuild, 0, len(models))
	for i := range models {
		build, err := r.modelToBuild(&models[i])
		if err != nil {
			continue // Skip rows that no longer validate
		}
		builds = append(builds, build)
	}

	return builds, nil
}

// Delete removes a build by id
func (r *GormBuildRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SavedBuildModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete build: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewBuildNotFoundError(id)
	}

	return nil
}

func (r *GormBuildRepository) modelToBuild(model *SavedBuildModel) (*outfitting.SavedBuild, error) {
	build, err := outfitting.ReconstructSavedBuild(
		model.ID,
		model.Name,
		model.ShipID,
		model.Code,
		model.TotalCost,
		model.UnladenMass,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid build %s in database: %w", model.ID, err)
	}
	return build, nil
}

func (r *GormBuildRepository) buildToModel(build *outfitting.SavedBuild) *SavedBuildModel {
	return &SavedBuildModel{
		ID:          build.ID(),
		Name:        build.Name(),
		ShipID:      build.ShipID(),
		Code:        build.Code(),
		TotalCost:   build.TotalCost(),
		UnladenMass: build.UnladenMass(),
		CreatedAt:   build.CreatedAt(),
	}
}
