package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// GetSavedBuildQuery loads one saved build
type GetSavedBuildQuery struct {
	BuildID string
}

// GetSavedBuildResponse contains the saved build
type GetSavedBuildResponse struct {
	Build *outfitting.SavedBuild
}

// GetSavedBuildHandler handles the GetSavedBuild query
type GetSavedBuildHandler struct {
	buildRepo outfitting.BuildRepository
}

// NewGetSavedBuildHandler creates a new GetSavedBuildHandler
func NewGetSavedBuildHandler(buildRepo outfitting.BuildRepository) *GetSavedBuildHandler {
	return &GetSavedBuildHandler{buildRepo: buildRepo}
}

// Handle executes the GetSavedBuild query
func (h *GetSavedBuildHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetSavedBuildQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	build, err := h.buildRepo.FindByID(ctx, query.BuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load build: %w", err)
	}

	return &GetSavedBuildResponse{Build: build}, nil
}
