package outfitting

import (
	"context"
)

// HardpointQuery selects a hardpoint module. Empty strings match anything; Class is
// matched exactly (0 for utility modules).
type HardpointQuery struct {
	Group   string
	Class   int
	Rating  string
	Name    string
	Mount   string
	Missile string
}

// ModuleCatalog is the read-only module data the ship queries. Lookups that find
// nothing return nil. The Lightest* searches return the lightest module meeting the
// constraint with true, or the catalog's best effort (the largest capacity available)
// with false.
type ModuleCatalog interface {
	// Standard finds a standard module for the slot by class+rating token
	Standard(slot StandardSlot, token string) *Module

	// Hardpoint and Internal find modules by their two character code token
	Hardpoint(id string) *Module
	Internal(id string) *Module

	// Bulkhead returns the ship type's bulkhead for the index
	Bulkhead(shipID string, index int) *Module

	CargoHatch() *Module

	FindHardpoint(query HardpointQuery) *Module

	// LightestThruster finds the lightest thrusters of at most maxClass able to move mass
	LightestThruster(maxClass int, mass float64) (*Module, bool)

	// LightestPowerPlant finds the lightest power plant of at most maxClass generating
	// at least demand, rated minRating or better when minRating is set
	LightestPowerPlant(maxClass int, demand float64, minRating string) (*Module, bool)

	// LightestPowerDistributor finds the lightest distributor of at most maxClass able
	// to feed a boost costing boostEnergy
	LightestPowerDistributor(maxClass int, boostEnergy float64) (*Module, bool)

	// Len is the number of modules in the catalog
	Len() int
}

// ShipCatalog lists the ship types
type ShipCatalog interface {
	Ship(id string) (*ShipDefinition, error)
	Ships() []*ShipDefinition
}

// BuildRepository persists saved builds
type BuildRepository interface {
	// Save inserts or updates a build
	Save(ctx context.Context, build *SavedBuild) error

	// FindByID returns shared.BuildNotFoundError when no build has the id
	FindByID(ctx context.Context, id string) (*SavedBuild, error)

	// ListByShip returns the builds of a ship type, newest first. An empty shipID lists
	// every build.
	ListByShip(ctx context.Context, shipID string) ([]*SavedBuild, error)

	// Delete returns shared.BuildNotFoundError when no build has the id
	Delete(ctx context.Context, id string) error
}
