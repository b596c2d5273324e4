package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// RenameBuildCommand changes the display name of a saved build
type RenameBuildCommand struct {
	BuildID string
	Name    string
}

// RenameBuildResponse contains the renamed build
type RenameBuildResponse struct {
	Build *outfitting.SavedBuild
}

// RenameBuildHandler handles the RenameBuild command
type RenameBuildHandler struct {
	buildRepo outfitting.BuildRepository
}

// NewRenameBuildHandler creates a new RenameBuildHandler
func NewRenameBuildHandler(buildRepo outfitting.BuildRepository) *RenameBuildHandler {
	return &RenameBuildHandler{buildRepo: buildRepo}
}

// Handle executes the RenameBuild command
func (h *RenameBuildHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RenameBuildCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	build, err := h.buildRepo.FindByID(ctx, cmd.BuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load build: %w", err)
	}

	previous := build.Name()
	if err := build.Rename(cmd.Name); err != nil {
		return nil, err
	}

	if err := h.buildRepo.Save(ctx, build); err != nil {
		return nil, fmt.Errorf("failed to save build: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "Build renamed", map[string]interface{}{
		"build_id": build.ID(),
		"from":     previous,
		"to":       build.Name(),
	})

	return &RenameBuildResponse{Build: build}, nil
}
