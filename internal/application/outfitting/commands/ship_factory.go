package commands

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/adapters/metrics"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// Pricing holds the cost multipliers applied to every ship the factory builds. Zero
// multipliers mean full price.
type Pricing struct {
	ShipMultiplier   float64
	ModuleMultiplier float64
}

// ShipFactory creates ships from the catalog with pricing applied
type ShipFactory struct {
	modules outfitting.ModuleCatalog
	ships   outfitting.ShipCatalog
	pricing Pricing
}

// NewShipFactory creates a new ShipFactory
func NewShipFactory(modules outfitting.ModuleCatalog, ships outfitting.ShipCatalog, pricing Pricing) *ShipFactory {
	if pricing.ShipMultiplier == 0 {
		pricing.ShipMultiplier = 1
	}
	if pricing.ModuleMultiplier == 0 {
		pricing.ModuleMultiplier = 1
	}
	return &ShipFactory{modules: modules, ships: ships, pricing: pricing}
}

// New returns a freshly fitted ship of the type
func (f *ShipFactory) New(shipID string) (*outfitting.Ship, error) {
	def, err := f.ships.Ship(shipID)
	if err != nil {
		return nil, err
	}
	ship, err := outfitting.NewShip(*def, f.modules)
	if err != nil {
		return nil, fmt.Errorf("failed to create ship %s: %w", shipID, err)
	}
	if f.pricing.ShipMultiplier != 1 || f.pricing.ModuleMultiplier != 1 {
		if _, err := ship.ApplyDiscounts(f.pricing.ShipMultiplier, f.pricing.ModuleMultiplier); err != nil {
			return nil, fmt.Errorf("failed to apply pricing: %w", err)
		}
	}
	return ship, nil
}

// FromCode returns a ship of the type fitted from a build code. An empty code gives
// the fresh ship.
func (f *ShipFactory) FromCode(shipID, code string) (*outfitting.Ship, error) {
	ship, err := f.New(shipID)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return ship, nil
	}
	if _, err := ship.BuildFromCode(code); err != nil {
		var codeErr *shared.InvalidBuildCodeError
		if errors.As(err, &codeErr) {
			metrics.RecordBuildCodeError(shipID, codeErr.Segment)
		}
		return nil, err
	}
	return ship, nil
}
