package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/adapters/metrics"
	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/dtos"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// OptimizeBuildCommand fits the lightest standard modules that keep a ship powered
// and able to boost. Hardpoints and internals are stripped.
type OptimizeBuildCommand struct {
	ShipID string

	// Code is the starting build. Empty starts from the fresh ship.
	Code string

	// Pinned maps standard slot names (power_plant, thrusters, ...) to class+rating
	// tokens the search must keep
	Pinned map[string]string

	// PowerPlantRating is the worst power plant rating the search may pick
	PowerPlantRating string
}

// OptimizeBuildResponse contains the optimized ship
type OptimizeBuildResponse struct {
	Ship       *outfitting.Ship
	Stats      outfitting.Stats
	Slots      []dtos.SlotDTO
	Code       string
	Iterations int
	Converged  bool

	// Infeasible names the slots no catalog module could satisfy. The ship carries
	// the best candidate for each.
	Infeasible []string
}

// OptimizeBuildHandler handles the OptimizeBuild command
type OptimizeBuildHandler struct {
	factory *ShipFactory
}

// NewOptimizeBuildHandler creates a new OptimizeBuildHandler
func NewOptimizeBuildHandler(factory *ShipFactory) *OptimizeBuildHandler {
	return &OptimizeBuildHandler{factory: factory}
}

// Handle executes the OptimizeBuild command
func (h *OptimizeBuildHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*OptimizeBuildCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := common.LoggerFromContext(ctx)

	overrides, err := parseOverrides(cmd)
	if err != nil {
		return nil, err
	}

	ship, err := h.factory.FromCode(cmd.ShipID, cmd.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to decode build: %w", err)
	}

	result, stats, err := ship.OptimizeMass(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize build: %w", err)
	}

	code, err := ship.BuildCode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode build: %w", err)
	}

	response := &OptimizeBuildResponse{
		Ship:       ship,
		Stats:      stats,
		Slots:      dtos.SlotsToDTO(ship, false),
		Code:       code,
		Iterations: result.Iterations,
		Converged:  result.Converged,
	}
	for _, k := range result.Infeasible {
		response.Infeasible = append(response.Infeasible, k.String())
	}

	metrics.RecordOptimization(cmd.ShipID, result.Iterations, response.Infeasible)

	if len(response.Infeasible) > 0 {
		logger.Log("WARNING", "No module satisfies every constraint", map[string]interface{}{
			"ship_id": cmd.ShipID,
			"slots":   response.Infeasible,
		})
	}
	if !result.Converged {
		logger.Log("WARNING", "Lightest configuration search did not converge", map[string]interface{}{
			"ship_id":    cmd.ShipID,
			"iterations": result.Iterations,
		})
	}

	return response, nil
}

func parseOverrides(cmd *OptimizeBuildCommand) (outfitting.Overrides, error) {
	overrides := outfitting.Overrides{PowerPlantRating: cmd.PowerPlantRating}
	if len(cmd.Pinned) == 0 {
		return overrides, nil
	}
	overrides.Modules = make(map[outfitting.StandardSlot]string, len(cmd.Pinned))
	for name, token := range cmd.Pinned {
		slot, err := outfitting.ParseStandardSlot(name)
		if err != nil {
			return outfitting.Overrides{}, shared.NewValidationError("pinned", err.Error())
		}
		overrides.Modules[slot] = token
	}
	return overrides, nil
}
