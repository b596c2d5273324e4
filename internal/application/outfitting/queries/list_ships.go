package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/dtos"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// ListShipsQuery lists the ship types in the catalog
type ListShipsQuery struct{}

// ListShipsResponse contains the ship types in catalog order
type ListShipsResponse struct {
	Ships []dtos.ShipDTO
}

// ListShipsHandler handles the ListShips query
type ListShipsHandler struct {
	ships outfitting.ShipCatalog
}

// NewListShipsHandler creates a new ListShipsHandler
func NewListShipsHandler(ships outfitting.ShipCatalog) *ListShipsHandler {
	return &ListShipsHandler{ships: ships}
}

// Handle executes the ListShips query
func (h *ListShipsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListShipsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	defs := h.ships.Ships()
	ships := make([]dtos.ShipDTO, len(defs))
	for i, def := range defs {
		ships[i] = dtos.ShipDefinitionToDTO(def)
	}

	return &ListShipsResponse{Ships: ships}, nil
}
