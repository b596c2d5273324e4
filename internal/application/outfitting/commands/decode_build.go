package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/adapters/metrics"
	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/dtos"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// DecodeBuildCommand fits a ship of the given type from a build code
type DecodeBuildCommand struct {
	ShipID string
	Code   string

	// Deployed reports slot power status with hardpoints deployed
	Deployed bool
}

// DecodeBuildResponse contains the decoded ship and its figures
type DecodeBuildResponse struct {
	Ship  *outfitting.Ship
	Stats outfitting.Stats
	Slots []dtos.SlotDTO
	Bands []outfitting.BandTotals

	// Code is the ship re-encoded, which drops unknown module tokens
	Code string
}

// DecodeBuildHandler handles the DecodeBuild command
type DecodeBuildHandler struct {
	factory *ShipFactory
}

// NewDecodeBuildHandler creates a new DecodeBuildHandler
func NewDecodeBuildHandler(factory *ShipFactory) *DecodeBuildHandler {
	return &DecodeBuildHandler{factory: factory}
}

// Handle executes the DecodeBuild command
func (h *DecodeBuildHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DecodeBuildCommand)
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

	code, err := ship.BuildCode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode build: %w", err)
	}

	stats := ship.Stats()
	metrics.RecordBuildDecoded(cmd.ShipID, stats.UnladenMass, stats.TotalCost)

	logger.Log("DEBUG", "Build decoded", map[string]interface{}{
		"ship_id": cmd.ShipID,
		"code":    code,
	})

	return &DecodeBuildResponse{
		Ship:  ship,
		Stats: stats,
		Slots: dtos.SlotsToDTO(ship, cmd.Deployed),
		Bands: ship.Bands(),
		Code:  code,
	}, nil
}
