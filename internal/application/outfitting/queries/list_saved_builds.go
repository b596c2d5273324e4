package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// ListSavedBuildsQuery lists saved builds, newest first. An empty ShipID lists every
// ship type.
type ListSavedBuildsQuery struct {
	ShipID string
}

// ListSavedBuildsResponse contains the saved builds
type ListSavedBuildsResponse struct {
	Builds []*outfitting.SavedBuild
}

// ListSavedBuildsHandler handles the ListSavedBuilds query
type ListSavedBuildsHandler struct {
	buildRepo outfitting.BuildRepository
}

// NewListSavedBuildsHandler creates a new ListSavedBuildsHandler
func NewListSavedBuildsHandler(buildRepo outfitting.BuildRepository) *ListSavedBuildsHandler {
	return &ListSavedBuildsHandler{buildRepo: buildRepo}
}

// Handle executes the ListSavedBuilds query
func (h *ListSavedBuildsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListSavedBuildsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	builds, err := h.buildRepo.ListByShip(ctx, query.ShipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}

	return &ListSavedBuildsResponse{Builds: builds}, nil
}
