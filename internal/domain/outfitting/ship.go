package outfitting

import (
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/domain/buildcode"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// MaxSlotClass is the largest slot class a ship definition may declare
const MaxSlotClass = 8

// ArmourMultipliers maps a bulkhead index to the multiplier applied to base armour
var ArmourMultipliers = []float64{1, 1.4, 1.945, 1.945, 1.945}

// Properties are the static hull figures of a ship type
type Properties struct {
	Name               string
	Manufacturer       string
	HullMass           float64
	HullCost           int64
	BaseArmour         float64
	BaseShieldStrength float64
	Speed              float64
	Boost              float64
	BoostEnergy        float64
	PipSpeed           float64
}

// InternalSlotSpec describes one internal slot. Eligible restricts the groups the slot
// takes; empty means any internal module.
type InternalSlotSpec struct {
	Class    int
	Eligible []string
}

// SlotLayout is the slot shape of a ship type
type SlotLayout struct {
	Standard   [StandardSlotCount]int
	Hardpoints []int
	Internal   []InternalSlotSpec
}

// ShipDefinition is everything the catalog knows about a ship type
type ShipDefinition struct {
	ID         string
	Properties Properties
	Slots      SlotLayout
}

// Ship aggregate - a ship type fitted with modules, kept consistent with its derived
// statistics after every mutation.
//
// Invariants:
// - Every installed module fits its slot (class and group)
// - At most one module of each unique family sits in the internal slots
// - Cumulative aggregates equal the sum of the contributions of installed modules
// - Power band prefix sums, speeds, jump ranges and shield strength are current
//   whenever no batch is open
//
// A Ship is owned by one caller. It is not safe for concurrent use.
type Ship struct {
	id      string
	props   Properties
	catalog ModuleCatalog

	standard   [StandardSlotCount]*Slot
	hardpoints []*Slot
	internal   []*Slot
	bulkhead   *Slot
	cargoHatch *Slot
	hull       *Slot

	bulkheadIndex int
	bands         PriorityBands

	shipCostMultiplier   float64
	moduleCostMultiplier float64

	// cumulative, adjusted by deltas
	unladenMass   milli
	fuelCapacity  milli
	cargoCapacity milli
	armourAdded   milli
	shieldMul     milli
	totalDPS      milli
	totalCost     int64
	armourMul     float64

	// derived, refreshed on flush
	powerAvailable    milli
	powerRetracted    milli
	powerDeployed     milli
	speeds            Speeds
	unladenRange      float64
	ladenRange        float64
	fullTankRange     float64
	unladenTotalRange float64
	ladenTotalRange   float64
	maxJumpCount      int
	shieldStrength    float64

	dirty      statsDirty
	batchDepth int
	code       codeCache
}

// NewShip creates a ship of the given type with bulkhead 0 and the cargo hatch
// installed. Every other slot is empty, enabled and in priority band 0.
func NewShip(def ShipDefinition, catalog ModuleCatalog) (*Ship, error) {
	if err := validateDefinition(def); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, shared.NewInvalidShipDataError("catalog cannot be nil")
	}

	s := &Ship{
		id:                   def.ID,
		props:                def.Properties,
		catalog:              catalog,
		shipCostMultiplier:   1,
		moduleCostMultiplier: 1,
		armourMul:            1,
		unladenMass:          toMilli(def.Properties.HullMass),
		shieldMul:            toMilli(1),
	}

	for i, class := range def.Slots.Standard {
		s.standard[i] = newSlot(StandardRef(StandardSlot(i)), class, nil)
	}
	s.hardpoints = make([]*Slot, len(def.Slots.Hardpoints))
	for i, class := range def.Slots.Hardpoints {
		s.hardpoints[i] = newSlot(HardpointRef(i), class, nil)
	}
	s.internal = make([]*Slot, len(def.Slots.Internal))
	for i, spec := range def.Slots.Internal {
		s.internal[i] = newSlot(InternalRef(i), spec.Class, append([]string(nil), spec.Eligible...))
	}
	s.bulkhead = newSlot(BulkheadRef, MaxSlotClass, nil)
	s.cargoHatch = newSlot(CargoHatchRef, MaxSlotClass, nil)
	s.hull = newSlot(HullRef, MaxSlotClass, nil)
	s.hull.module = &Module{ID: def.ID, Name: def.Properties.Name, Category: CategorySystem, Cost: def.Properties.HullCost}
	s.hull.cost = def.Properties.HullCost
	s.totalCost = s.hull.cost

	hatch := catalog.CargoHatch()
	if hatch == nil {
		return nil, shared.NewInvalidShipDataError("catalog has no cargo hatch")
	}
	s.use(s.cargoHatch, hatch)

	if err := s.installBulkhead(0); err != nil {
		return nil, err
	}

	s.code.invalidateAll()
	s.flush()
	return s, nil
}

func validateDefinition(def ShipDefinition) error {
	if def.ID == "" {
		return shared.NewInvalidShipDataError("ship id cannot be empty")
	}
	p := def.Properties
	if p.HullMass <= 0 {
		return shared.NewInvalidShipDataError("hull mass must be positive")
	}
	if p.HullCost < 0 {
		return shared.NewInvalidShipDataError("hull cost cannot be negative")
	}
	if p.Speed < 0 || p.Boost < 0 {
		return shared.NewInvalidShipDataError("speed and boost cannot be negative")
	}
	if p.PipSpeed < 0 || p.PipSpeed > 0.25 {
		return shared.NewInvalidShipDataError("pip speed must be within 0..0.25")
	}

	check := func(what string, class int) error {
		if class < 0 || class > MaxSlotClass {
			return shared.NewInvalidShipDataError(fmt.Sprintf("%s class %d outside 0..%d", what, class, MaxSlotClass))
		}
		return nil
	}
	for i, class := range def.Slots.Standard {
		if err := check(StandardSlot(i).String(), class); err != nil {
			return err
		}
	}
	for i, class := range def.Slots.Hardpoints {
		if err := check(HardpointRef(i).String(), class); err != nil {
			return err
		}
	}
	for i, spec := range def.Slots.Internal {
		if err := check(InternalRef(i).String(), spec.Class); err != nil {
			return err
		}
	}
	return nil
}

// Getters

func (s *Ship) ID() string                    { return s.id }
func (s *Ship) Properties() Properties        { return s.props }
func (s *Ship) BulkheadIndex() int            { return s.bulkheadIndex }
func (s *Ship) HardpointCount() int           { return len(s.hardpoints) }
func (s *Ship) InternalCount() int            { return len(s.internal) }
func (s *Ship) ShipCostMultiplier() float64   { return s.shipCostMultiplier }
func (s *Ship) ModuleCostMultiplier() float64 { return s.moduleCostMultiplier }

// Bands returns a copy of the priority band totals
func (s *Ship) Bands() []BandTotals {
	return s.bands.All()
}

// Layout returns the slot shape used to read and write build codes
func (s *Ship) Layout() buildcode.Layout {
	return buildcode.Layout{
		Standard:   StandardSlotCount,
		Hardpoints: len(s.hardpoints),
		Internal:   len(s.internal),
	}
}

// Slot returns the slot addressed by ref
func (s *Ship) Slot(ref SlotRef) (*Slot, error) {
	switch ref.Kind {
	case RefStandard:
		if ref.Index >= 0 && ref.Index < StandardSlotCount {
			return s.standard[ref.Index], nil
		}
	case RefHardpoint:
		if ref.Index >= 0 && ref.Index < len(s.hardpoints) {
			return s.hardpoints[ref.Index], nil
		}
	case RefInternal:
		if ref.Index >= 0 && ref.Index < len(s.internal) {
			return s.internal[ref.Index], nil
		}
	case RefBulkhead:
		return s.bulkhead, nil
	case RefCargoHatch:
		return s.cargoHatch, nil
	case RefHull:
		return s.hull, nil
	}
	return nil, shared.NewInvalidSlotError(ref.String(), "no such slot")
}

// Standard returns the standard slot k
func (s *Ship) Standard(k StandardSlot) *Slot {
	return s.standard[k]
}

// Hardpoints returns the hardpoint slots in code order
func (s *Ship) Hardpoints() []*Slot {
	return append([]*Slot(nil), s.hardpoints...)
}

// Internal returns the internal slots in code order
func (s *Ship) Internal() []*Slot {
	return append([]*Slot(nil), s.internal...)
}

// powerSlots lists every slot carrying enabled and priority flags in flag order:
// cargo hatch, standard, hardpoints, internal.
func (s *Ship) powerSlots() []*Slot {
	slots := make([]*Slot, 0, 1+StandardSlotCount+len(s.hardpoints)+len(s.internal))
	slots = append(slots, s.cargoHatch)
	slots = append(slots, s.standard[:]...)
	slots = append(slots, s.hardpoints...)
	slots = append(slots, s.internal...)
	return slots
}

// costSlots lists every slot whose module cost can count toward the total
func (s *Ship) costSlots() []*Slot {
	slots := make([]*Slot, 0, 3+StandardSlotCount+len(s.hardpoints)+len(s.internal))
	slots = append(slots, s.hull, s.bulkhead, s.cargoHatch)
	slots = append(slots, s.standard[:]...)
	slots = append(slots, s.hardpoints...)
	slots = append(slots, s.internal...)
	return slots
}

// PowerStatus is the power state of a slot
type PowerStatus int

const (
	// PowerStatusNone applies to empty slots and to active hardpoints while retracted
	PowerStatusNone PowerStatus = iota
	PowerStatusDisabled
	PowerStatusOffline
	PowerStatusOnline
)

func (p PowerStatus) String() string {
	switch p {
	case PowerStatusDisabled:
		return "disabled"
	case PowerStatusOffline:
		return "offline"
	case PowerStatusOnline:
		return "online"
	}
	return ""
}

// SlotStatus returns the power status of a slot with hardpoints retracted or deployed.
// A band whose cumulative draw reaches the power plant output is offline as a whole.
func (s *Ship) SlotStatus(ref SlotRef, deployed bool) (PowerStatus, error) {
	slot, err := s.Slot(ref)
	if err != nil {
		return PowerStatusNone, err
	}
	return s.slotStatus(slot, deployed), nil
}

func (s *Ship) slotStatus(slot *Slot, deployed bool) PowerStatus {
	if slot.module == nil || !slot.hasPowerState() {
		return PowerStatusNone
	}
	if !slot.enabled {
		return PowerStatusDisabled
	}
	b := s.bands.bands[slot.priority]
	if deployed {
		if b.deployedSum >= s.powerAvailable {
			return PowerStatusOffline
		}
		return PowerStatusOnline
	}
	if slot.drawsDeployed(slot.module) {
		return PowerStatusNone
	}
	if b.retractedSum >= s.powerAvailable {
		return PowerStatusOffline
	}
	return PowerStatusOnline
}

// CanThrust reports whether the thrusters are online and can move the laden ship
func (s *Ship) CanThrust() bool {
	t := s.standard[Thrusters]
	return s.slotStatus(t, false) == PowerStatusOnline && s.ladenMass().float() < t.module.MaxMass
}

// CanBoost reports whether the ship can thrust and the power distributor can feed a
// boost
func (s *Ship) CanBoost() bool {
	pd := s.standard[PowerDistributor]
	return s.CanThrust() &&
		s.slotStatus(pd, false) == PowerStatusOnline &&
		s.props.BoostEnergy <= pd.module.EngineCapacity
}

// JumpRangeWith returns the single jump range carrying the given fuel and cargo
func (s *Ship) JumpRangeWith(fuel, cargo float64) float64 {
	return JumpRange(s.unladenMass.float()+fuel+cargo, s.standard[FrameShiftDrive].module, fuel)
}

// TotalRangeWith returns the total range carrying the given fuel and cargo
func (s *Ship) TotalRangeWith(fuel, cargo float64) float64 {
	return TotalRange(s.unladenMass.float()+fuel+cargo, s.standard[FrameShiftDrive].module, fuel)
}

// SpeedsWith returns the speeds carrying the given fuel and cargo
func (s *Ship) SpeedsWith(fuel, cargo float64) Speeds {
	return ShipSpeeds(s.unladenMass.float()+fuel+cargo, s.props.Speed, s.props.Boost,
		s.standard[Thrusters].module, s.props.PipSpeed)
}

// FindInternalByGroup returns the first internal slot holding a module of the group.
// Any shield generator variant matches any other.
func (s *Ship) FindInternalByGroup(group string) (*Slot, bool) {
	for _, slot := range s.internal {
		if slot.module == nil {
			continue
		}
		if IsShieldGeneratorGroup(group) {
			if slot.module.IsShieldGenerator() {
				return slot, true
			}
		} else if slot.module.Group == group {
			return slot, true
		}
	}
	return nil, false
}

func (s *Ship) String() string {
	return fmt.Sprintf("Ship[%s, hardpoints=%d, internal=%d]", s.id, len(s.hardpoints), len(s.internal))
}
