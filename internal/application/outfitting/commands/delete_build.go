package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// DeleteBuildCommand removes a saved build
type DeleteBuildCommand struct {
	BuildID string
}

// DeleteBuildResponse echoes the deleted build's id
type DeleteBuildResponse struct {
	BuildID string
}

// DeleteBuildHandler handles the DeleteBuild command
type DeleteBuildHandler struct {
	buildRepo outfitting.BuildRepository
}

// NewDeleteBuildHandler creates a new DeleteBuildHandler
func NewDeleteBuildHandler(buildRepo outfitting.BuildRepository) *DeleteBuildHandler {
	return &DeleteBuildHandler{buildRepo: buildRepo}
}

// Handle executes the DeleteBuild command
func (h *DeleteBuildHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteBuildCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.buildRepo.Delete(ctx, cmd.BuildID); err != nil {
		return nil, fmt.Errorf("failed to delete build: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "Build deleted", map[string]interface{}{
		"build_id": cmd.BuildID,
	})

	return &DeleteBuildResponse{BuildID: cmd.BuildID}, nil
}
