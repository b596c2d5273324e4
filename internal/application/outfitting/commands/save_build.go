package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/adapters/metrics"
	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/pkg/utils"
)

// SaveBuildCommand stores a build code under a name. The code is decoded first so
// only codes the catalog accepts are kept, in normalized form.
type SaveBuildCommand struct {
	ShipID string
	Code   string
	Name   string
}

// SaveBuildResponse contains the stored build
type SaveBuildResponse struct {
	Build *outfitting.SavedBuild
}

// SaveBuildHandler handles the SaveBuild command
type SaveBuildHandler struct {
	factory   *ShipFactory
	buildRepo outfitting.BuildRepository
	clock     shared.Clock
}

// NewSaveBuildHandler creates a new SaveBuildHandler
func NewSaveBuildHandler(factory *ShipFactory, buildRepo outfitting.BuildRepository, clock shared.Clock) *SaveBuildHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SaveBuildHandler{factory: factory, buildRepo: buildRepo, clock: clock}
}

// Handle executes the SaveBuild command
func (h *SaveBuildHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SaveBuildCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := common.LoggerFromContext(ctx)

	ship, err := h.factory.FromCode(cmd.ShipID, cmd.Code)
	if err != nil {
		logger.Log("WARNING", "Build code rejected", map[string]interface{}{
			"ship_id": cmd.ShipID,
			"code":    cmd.Code,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to decode build: %w", err)
	}

	build, err := outfitting.NewSavedBuild(utils.GenerateBuildID(ship.ID()), cmd.Name, ship, h.clock)
	if err != nil {
		return nil, err
	}

	if err := h.buildRepo.Save(ctx, build); err != nil {
		return nil, fmt.Errorf("failed to save build: %w", err)
	}

	metrics.RecordBuildSaved(build.ShipID())

	logger.Log("INFO", "Build saved", map[string]interface{}{
		"build_id": build.ID(),
		"name":     build.Name(),
		"ship_id":  build.ShipID(),
	})

	return &SaveBuildResponse{Build: build}, nil
}
