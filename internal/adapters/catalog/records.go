package catalog

import (
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// Data is the on-disk shape of a catalog file
type Data struct {
	CargoHatch ModuleRecord   `yaml:"cargo_hatch" toml:"cargo_hatch" validate:"required"`
	Ships      []ShipRecord   `yaml:"ships" toml:"ships" validate:"required,min=1,dive"`
	Modules    []ModuleRecord `yaml:"modules" toml:"modules" validate:"dive"`
}

// ShipRecord describes one ship type
type ShipRecord struct {
	ID           string  `yaml:"id" toml:"id" validate:"required"`
	Name         string  `yaml:"name" toml:"name" validate:"required"`
	Manufacturer string  `yaml:"manufacturer" toml:"manufacturer"`
	HullMass     float64 `yaml:"hull_mass" toml:"hull_mass" validate:"gt=0"`
	HullCost     int64   `yaml:"hull_cost" toml:"hull_cost" validate:"gte=0"`
	BaseArmour   float64 `yaml:"base_armour" toml:"base_armour" validate:"gte=0"`
	BaseShield   float64 `yaml:"base_shield" toml:"base_shield" validate:"gte=0"`
	Speed        float64 `yaml:"speed" toml:"speed" validate:"gte=0"`
	Boost        float64 `yaml:"boost" toml:"boost" validate:"gte=0"`
	BoostEnergy  float64 `yaml:"boost_energy" toml:"boost_energy" validate:"gte=0"`
	PipSpeed     float64 `yaml:"pip_speed" toml:"pip_speed" validate:"gte=0,lte=0.25"`

	Slots     SlotsRecord      `yaml:"slots" toml:"slots"`
	Bulkheads []BulkheadRecord `yaml:"bulkheads" toml:"bulkheads" validate:"required,min=1,max=5,dive"`
}

// SlotsRecord is the slot layout of a ship type
type SlotsRecord struct {
	Standard   []int            `yaml:"standard" toml:"standard" validate:"len=7,dive,gte=0,lte=8"`
	Hardpoints []int            `yaml:"hardpoints" toml:"hardpoints" validate:"dive,gte=0,lte=8"`
	Internal   []InternalRecord `yaml:"internal" toml:"internal" validate:"dive"`
}

// InternalRecord is one internal slot
type InternalRecord struct {
	Class    int      `yaml:"class" toml:"class" validate:"gte=0,lte=8"`
	Eligible []string `yaml:"eligible,omitempty" toml:"eligible,omitempty"`
}

// BulkheadRecord is the bulkhead for one index of a ship type
type BulkheadRecord struct {
	Name string  `yaml:"name" toml:"name" validate:"required"`
	Mass float64 `yaml:"mass" toml:"mass" validate:"gte=0"`
	Cost int64   `yaml:"cost" toml:"cost" validate:"gte=0"`
}

// ModuleRecord is one module. Only the fields that apply to the group need to be set.
type ModuleRecord struct {
	ID       string `yaml:"id,omitempty" toml:"id,omitempty" validate:"omitempty,len=2,alphanum"`
	Group    string `yaml:"group" toml:"group" validate:"required"`
	Category string `yaml:"category" toml:"category" validate:"required,oneof=standard hardpoint internal system"`
	Name     string `yaml:"name,omitempty" toml:"name,omitempty"`
	Class    int    `yaml:"class" toml:"class" validate:"gte=0,lte=8"`
	Rating   string `yaml:"rating,omitempty" toml:"rating,omitempty" validate:"omitempty,rating"`

	Mass     float64 `yaml:"mass,omitempty" toml:"mass,omitempty" validate:"gte=0"`
	Power    float64 `yaml:"power,omitempty" toml:"power,omitempty" validate:"gte=0"`
	Cost     int64   `yaml:"cost,omitempty" toml:"cost,omitempty" validate:"gte=0"`
	Capacity float64 `yaml:"capacity,omitempty" toml:"capacity,omitempty" validate:"gte=0"`
	Passive  bool    `yaml:"passive,omitempty" toml:"passive,omitempty"`

	DPS     float64 `yaml:"dps,omitempty" toml:"dps,omitempty" validate:"gte=0"`
	Ammo    int     `yaml:"ammo,omitempty" toml:"ammo,omitempty" validate:"gte=0"`
	Mount   string  `yaml:"mount,omitempty" toml:"mount,omitempty" validate:"omitempty,oneof=F G T"`
	Missile string  `yaml:"missile,omitempty" toml:"missile,omitempty" validate:"omitempty,oneof=D S"`

	ArmourAdd float64 `yaml:"armour_add,omitempty" toml:"armour_add,omitempty" validate:"gte=0"`
	ShieldMul float64 `yaml:"shield_mul,omitempty" toml:"shield_mul,omitempty" validate:"gte=0"`

	PowerGen       float64 `yaml:"power_gen,omitempty" toml:"power_gen,omitempty" validate:"gte=0"`
	EngineCapacity float64 `yaml:"engine_capacity,omitempty" toml:"engine_capacity,omitempty" validate:"gte=0"`

	MinMass float64 `yaml:"min_mass,omitempty" toml:"min_mass,omitempty" validate:"gte=0"`
	OptMass float64 `yaml:"opt_mass,omitempty" toml:"opt_mass,omitempty" validate:"gte=0"`
	MaxMass float64 `yaml:"max_mass,omitempty" toml:"max_mass,omitempty" validate:"gte=0"`

	MaxFuel   float64 `yaml:"max_fuel,omitempty" toml:"max_fuel,omitempty" validate:"gte=0"`
	FuelMul   float64 `yaml:"fuel_mul,omitempty" toml:"fuel_mul,omitempty" validate:"gte=0"`
	FuelPower float64 `yaml:"fuel_power,omitempty" toml:"fuel_power,omitempty" validate:"gte=0"`

	MinMul float64 `yaml:"min_mul,omitempty" toml:"min_mul,omitempty" validate:"gte=0"`
	OptMul float64 `yaml:"opt_mul,omitempty" toml:"opt_mul,omitempty" validate:"gte=0"`
	MaxMul float64 `yaml:"max_mul,omitempty" toml:"max_mul,omitempty" validate:"gte=0"`
}

func (r ModuleRecord) toModule() (*outfitting.Module, error) {
	category, err := outfitting.ParseCategory(r.Category)
	if err != nil {
		return nil, err
	}
	if (category == outfitting.CategoryHardpoint || category == outfitting.CategoryInternal) && r.ID == "" {
		return nil, fmt.Errorf("%s module %s %d%s needs a two character id", r.Category, r.Group, r.Class, r.Rating)
	}
	if category == outfitting.CategoryStandard {
		if _, err := outfitting.ParseStandardSlot(r.Group); err != nil {
			return nil, fmt.Errorf("standard module with group %q: %w", r.Group, err)
		}
		if r.Rating == "" {
			return nil, fmt.Errorf("standard module %s class %d needs a rating", r.Group, r.Class)
		}
	}

	return &outfitting.Module{
		ID:             r.ID,
		Group:          r.Group,
		Category:       category,
		Name:           r.Name,
		Class:          r.Class,
		Rating:         r.Rating,
		Mass:           r.Mass,
		Power:          r.Power,
		Cost:           r.Cost,
		Capacity:       r.Capacity,
		Passive:        r.Passive,
		DPS:            r.DPS,
		Ammo:           r.Ammo,
		Mount:          r.Mount,
		Missile:        r.Missile,
		ArmourAdd:      r.ArmourAdd,
		ShieldMul:      r.ShieldMul,
		PowerGen:       r.PowerGen,
		EngineCapacity: r.EngineCapacity,
		MinMass:        r.MinMass,
		OptMass:        r.OptMass,
		MaxMass:        r.MaxMass,
		MaxFuel:        r.MaxFuel,
		FuelMul:        r.FuelMul,
		FuelPower:      r.FuelPower,
		MinMul:         r.MinMul,
		OptMul:         r.OptMul,
		MaxMul:         r.MaxMul,
	}, nil
}

func (r ShipRecord) toDefinition() *outfitting.ShipDefinition {
	def := &outfitting.ShipDefinition{
		ID: r.ID,
		Properties: outfitting.Properties{
			Name:               r.Name,
			Manufacturer:       r.Manufacturer,
			HullMass:           r.HullMass,
			HullCost:           r.HullCost,
			BaseArmour:         r.BaseArmour,
			BaseShieldStrength: r.BaseShield,
			Speed:              r.Speed,
			Boost:              r.Boost,
			BoostEnergy:        r.BoostEnergy,
			PipSpeed:           r.PipSpeed,
		},
	}
	copy(def.Slots.Standard[:], r.Slots.Standard)
	def.Slots.Hardpoints = append([]int(nil), r.Slots.Hardpoints...)
	def.Slots.Internal = make([]outfitting.InternalSlotSpec, len(r.Slots.Internal))
	for i, slot := range r.Slots.Internal {
		def.Slots.Internal[i] = outfitting.InternalSlotSpec{
			Class:    slot.Class,
			Eligible: append([]string(nil), slot.Eligible...),
		}
	}
	return def
}

func (r BulkheadRecord) toModule(shipID string, index int) *outfitting.Module {
	return &outfitting.Module{
		ID:       fmt.Sprintf("%s-bh%d", shipID, index),
		Group:    outfitting.GroupBulkhead,
		Category: outfitting.CategorySystem,
		Name:     r.Name,
		Class:    1,
		Rating:   "I",
		Mass:     r.Mass,
		Cost:     r.Cost,
	}
}
