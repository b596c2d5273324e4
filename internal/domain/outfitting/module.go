package outfitting

import (
	"fmt"
	"math"
)

// Module groups referenced by the ship rules. Catalogs may carry any number of other
// groups (weapons, utilities, internals); those need no special handling here.
const (
	GroupPowerPlant        = "pp"
	GroupThrusters         = "t"
	GroupFrameShiftDrive   = "fsd"
	GroupLifeSupport       = "ls"
	GroupPowerDistributor  = "pd"
	GroupSensors           = "s"
	GroupFuelTank          = "ft"
	GroupBulkhead          = "bh"
	GroupCargoHatch        = "cargohatch"
	GroupCargoRack         = "cr"
	GroupHullReinforcement = "hr"
	GroupShieldBooster     = "sb"
	GroupShieldGenerator   = "sg"
	GroupPrismaticShield   = "psg"
	GroupBiWeaveShield     = "bsg"
	GroupRefinery          = "rf"
	GroupFuelScoop         = "fs"
)

// Category says which kind of slot accepts a module
type Category int

const (
	CategoryStandard Category = iota
	CategoryHardpoint
	CategoryInternal
	CategorySystem
)

func (c Category) String() string {
	switch c {
	case CategoryStandard:
		return "standard"
	case CategoryHardpoint:
		return "hardpoint"
	case CategoryInternal:
		return "internal"
	case CategorySystem:
		return "system"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory maps the catalog spelling of a category back to its value
func ParseCategory(s string) (Category, error) {
	switch s {
	case "standard":
		return CategoryStandard, nil
	case "hardpoint":
		return CategoryHardpoint, nil
	case "internal":
		return CategoryInternal, nil
	case "system":
		return CategorySystem, nil
	}
	return 0, fmt.Errorf("unknown module category %q", s)
}

// Module is a catalog entry. Modules are shared between ships and never mutated once
// the catalog has been loaded.
//
// ID is the two character token used in build codes for hardpoint and internal
// modules. Standard modules are written as class+rating instead (see StandardToken).
// Fields that do not apply to a group are left zero.
type Module struct {
	ID       string
	Group    string
	Category Category
	Name     string
	Class    int
	Rating   string

	Mass     float64
	Power    float64
	Cost     int64
	Capacity float64
	Passive  bool

	// Weapons
	DPS     float64
	Ammo    int
	Mount   string
	Missile string

	// Hull reinforcement and shield boosters
	ArmourAdd float64
	ShieldMul float64

	// Power plant and power distributor
	PowerGen       float64
	EngineCapacity float64

	// Thrusters, frame shift drive and shield generators
	MinMass float64
	OptMass float64
	MaxMass float64

	// Frame shift drive
	MaxFuel   float64
	FuelMul   float64
	FuelPower float64

	// Shield generators
	MinMul float64
	OptMul float64
	MaxMul float64
}

// StandardToken returns the class+rating token of a standard module, e.g. "4A"
func (m *Module) StandardToken() string {
	return fmt.Sprintf("%d%s", m.Class, m.Rating)
}

// Token returns the build code token for the module in its own category
func (m *Module) Token() string {
	if m.Category == CategoryStandard {
		return m.StandardToken()
	}
	return m.ID
}

// IsShieldGenerator reports whether the module belongs to the shield generator family
func (m *Module) IsShieldGenerator() bool {
	return IsShieldGeneratorGroup(m.Group)
}

// IsUnique reports whether a ship may carry at most one module of this group
func (m *Module) IsUnique() bool {
	return uniqueGroups[m.Group]
}

// IsWeapon reports whether the module deals damage
func (m *Module) IsWeapon() bool {
	return m.DPS > 0
}

func (m *Module) String() string {
	if m.Name != "" {
		return fmt.Sprintf("%s %s", m.StandardToken(), m.Name)
	}
	return fmt.Sprintf("%s %s", m.StandardToken(), m.Group)
}

// IsShieldGeneratorGroup reports whether group is one of the shield generator variants
func IsShieldGeneratorGroup(group string) bool {
	return group == GroupShieldGenerator || group == GroupPrismaticShield || group == GroupBiWeaveShield
}

// uniqueGroups are the internal groups limited to one per ship. The shield generator
// variants share a single allowance.
var uniqueGroups = map[string]bool{
	GroupPrismaticShield: true,
	GroupShieldGenerator: true,
	GroupBiWeaveShield:   true,
	GroupRefinery:        true,
	GroupFuelScoop:       true,
}

// sameFamily reports whether two groups compete for the same unique allowance
func sameFamily(a, b string) bool {
	if IsShieldGeneratorGroup(a) {
		return IsShieldGeneratorGroup(b)
	}
	return a == b
}

// sameModule compares catalog entries by identity, falling back to category and token
// for catalogs that hand out copies.
func sameModule(a, b *Module) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Category == b.Category && a.Group == b.Group && a.Token() == b.Token()
}

// milli is a quantity held as an integer count of thousandths. Sums of milli values
// are exact, so removing a contribution always restores the previous total.
type milli int64

func toMilli(v float64) milli {
	return milli(math.Round(v * 1000))
}

func (m milli) float() float64 {
	return float64(m) / 1000
}

// discountedCost applies a price multiplier and rounds to whole credits
func discountedCost(cost int64, multiplier float64) int64 {
	return int64(math.Round(float64(cost) * multiplier))
}

// RatingAtLeast reports whether rating is as good as or better than floor. Ratings run
// from A (best) to E. An empty floor admits any rating.
func RatingAtLeast(rating, floor string) bool {
	if floor == "" {
		return true
	}
	return rating != "" && rating <= floor
}
