package catalog

import (
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
)

// Catalog is an in-memory module and ship catalog. It is read-only after New and safe
// for concurrent use.
type Catalog struct {
	standard   [outfitting.StandardSlotCount]map[string]*outfitting.Module
	byClass    [outfitting.StandardSlotCount][]*outfitting.Module
	hardpoints map[string]*outfitting.Module
	hardList   []*outfitting.Module
	internals  map[string]*outfitting.Module
	bulkheads  map[string][]*outfitting.Module
	cargoHatch *outfitting.Module

	ships     []*outfitting.ShipDefinition
	shipIndex map[string]*outfitting.ShipDefinition

	count int
}

// Compile-time interface checks
var (
	_ outfitting.ModuleCatalog = (*Catalog)(nil)
	_ outfitting.ShipCatalog   = (*Catalog)(nil)
)

// New validates the data and builds the lookup indexes
func New(data Data) (*Catalog, error) {
	if err := config.NewValidator().Validate(data); err != nil {
		return nil, err
	}

	c := &Catalog{
		hardpoints: make(map[string]*outfitting.Module),
		internals:  make(map[string]*outfitting.Module),
		bulkheads:  make(map[string][]*outfitting.Module),
		shipIndex:  make(map[string]*outfitting.ShipDefinition),
	}
	for i := range c.standard {
		c.standard[i] = make(map[string]*outfitting.Module)
	}

	hatch, err := data.CargoHatch.toModule()
	if err != nil {
		return nil, fmt.Errorf("cargo hatch: %w", err)
	}
	if hatch.Group != outfitting.GroupCargoHatch {
		return nil, fmt.Errorf("cargo hatch: group must be %q, got %q", outfitting.GroupCargoHatch, hatch.Group)
	}
	c.cargoHatch = hatch
	c.count++

	for i, record := range data.Modules {
		m, err := record.toModule()
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		if err := c.add(m); err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
	}

	for _, record := range data.Ships {
		if _, dup := c.shipIndex[record.ID]; dup {
			return nil, fmt.Errorf("duplicate ship id %q", record.ID)
		}
		def := record.toDefinition()
		c.ships = append(c.ships, def)
		c.shipIndex[def.ID] = def

		bulkheads := make([]*outfitting.Module, len(record.Bulkheads))
		for i, bh := range record.Bulkheads {
			bulkheads[i] = bh.toModule(record.ID, i)
		}
		c.bulkheads[record.ID] = bulkheads
		c.count += len(bulkheads)
	}
	return c, nil
}

func (c *Catalog) add(m *outfitting.Module) error {
	switch m.Category {
	case outfitting.CategoryStandard:
		slot, _ := outfitting.ParseStandardSlot(m.Group)
		token := m.StandardToken()
		if _, dup := c.standard[slot][token]; dup {
			return fmt.Errorf("duplicate %s module %s", slot, token)
		}
		c.standard[slot][token] = m
		c.byClass[slot] = append(c.byClass[slot], m)
	case outfitting.CategoryHardpoint:
		if _, dup := c.hardpoints[m.ID]; dup {
			return fmt.Errorf("duplicate hardpoint id %q", m.ID)
		}
		c.hardpoints[m.ID] = m
		c.hardList = append(c.hardList, m)
	case outfitting.CategoryInternal:
		if _, dup := c.internals[m.ID]; dup {
			return fmt.Errorf("duplicate internal id %q", m.ID)
		}
		c.internals[m.ID] = m
	default:
		return fmt.Errorf("%s modules cannot be listed with the modules", m.Category)
	}
	c.count++
	return nil
}

func (c *Catalog) Standard(slot outfitting.StandardSlot, token string) *outfitting.Module {
	if slot < 0 || int(slot) >= outfitting.StandardSlotCount {
		return nil
	}
	return c.standard[slot][token]
}

func (c *Catalog) Hardpoint(id string) *outfitting.Module { return c.hardpoints[id] }
func (c *Catalog) Internal(id string) *outfitting.Module  { return c.internals[id] }
func (c *Catalog) CargoHatch() *outfitting.Module         { return c.cargoHatch }
func (c *Catalog) Len() int                               { return c.count }

func (c *Catalog) Bulkhead(shipID string, index int) *outfitting.Module {
	list := c.bulkheads[shipID]
	if index < 0 || index >= len(list) {
		return nil
	}
	return list[index]
}

// FindHardpoint returns the first hardpoint module, in catalog order, matching every
// set field of the query
func (c *Catalog) FindHardpoint(q outfitting.HardpointQuery) *outfitting.Module {
	for _, m := range c.hardList {
		if m.Group != q.Group && q.Group != "" {
			continue
		}
		if m.Class != q.Class {
			continue
		}
		if (q.Rating != "" && m.Rating != q.Rating) ||
			(q.Name != "" && m.Name != q.Name) ||
			(q.Mount != "" && m.Mount != q.Mount) ||
			(q.Missile != "" && m.Missile != q.Missile) {
			continue
		}
		return m
	}
	return nil
}

// lightest returns the lightest eligible module of the slot meeting ok. When none
// does, it returns the eligible candidate ranking highest on capacity with false. A nil
// eligible admits every module up to maxClass.
func (c *Catalog) lightest(
	slot outfitting.StandardSlot,
	maxClass int,
	eligible func(*outfitting.Module) bool,
	ok func(*outfitting.Module) bool,
	capacity func(*outfitting.Module) float64,
) (*outfitting.Module, bool) {
	var best, fallback *outfitting.Module
	for _, m := range c.byClass[slot] {
		if m.Class > maxClass || (eligible != nil && !eligible(m)) {
			continue
		}
		if fallback == nil || capacity(m) > capacity(fallback) {
			fallback = m
		}
		if ok(m) && (best == nil || m.Mass < best.Mass) {
			best = m
		}
	}
	if best != nil {
		return best, true
	}
	return fallback, false
}

// LightestThruster requires a maximum mass strictly above the ship mass
func (c *Catalog) LightestThruster(maxClass int, mass float64) (*outfitting.Module, bool) {
	return c.lightest(outfitting.Thrusters, maxClass, nil,
		func(m *outfitting.Module) bool { return m.MaxMass > mass },
		func(m *outfitting.Module) float64 { return m.MaxMass })
}

// LightestPowerPlant requires output strictly above demand, since a band whose draw
// equals the output is offline. Plants rated below minRating are never returned, not
// even as the fallback.
func (c *Catalog) LightestPowerPlant(maxClass int, demand float64, minRating string) (*outfitting.Module, bool) {
	return c.lightest(outfitting.PowerPlant, maxClass,
		func(m *outfitting.Module) bool { return outfitting.RatingAtLeast(m.Rating, minRating) },
		func(m *outfitting.Module) bool { return m.PowerGen > demand },
		func(m *outfitting.Module) float64 { return m.PowerGen })
}

func (c *Catalog) LightestPowerDistributor(maxClass int, boostEnergy float64) (*outfitting.Module, bool) {
	return c.lightest(outfitting.PowerDistributor, maxClass, nil,
		func(m *outfitting.Module) bool { return m.EngineCapacity >= boostEnergy },
		func(m *outfitting.Module) float64 { return m.EngineCapacity })
}

// Ship returns the definition of a ship type
func (c *Catalog) Ship(id string) (*outfitting.ShipDefinition, error) {
	def, ok := c.shipIndex[id]
	if !ok {
		return nil, shared.NewShipNotFoundError(id)
	}
	return def, nil
}

// Ships lists every ship type in catalog order
func (c *Catalog) Ships() []*outfitting.ShipDefinition {
	return append([]*outfitting.ShipDefinition(nil), c.ships...)
}

// NewShip creates a freshly fitted ship of the given type
func (c *Catalog) NewShip(id string) (*outfitting.Ship, error) {
	def, err := c.Ship(id)
	if err != nil {
		return nil, err
	}
	return outfitting.NewShip(*def, c)
}
