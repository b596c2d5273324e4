package outfitting

import (
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// StandardSlot names the fixed-function slots. The order is the build code order.
type StandardSlot int

const (
	PowerPlant StandardSlot = iota
	Thrusters
	FrameShiftDrive
	LifeSupport
	PowerDistributor
	Sensors
	FuelTank
)

// StandardSlotCount is the number of standard slots on every ship
const StandardSlotCount = 7

var standardSlotNames = [StandardSlotCount]string{
	"power_plant",
	"thrusters",
	"frame_shift_drive",
	"life_support",
	"power_distributor",
	"sensors",
	"fuel_tank",
}

var standardSlotGroups = [StandardSlotCount]string{
	GroupPowerPlant,
	GroupThrusters,
	GroupFrameShiftDrive,
	GroupLifeSupport,
	GroupPowerDistributor,
	GroupSensors,
	GroupFuelTank,
}

func (s StandardSlot) String() string {
	if s < 0 || int(s) >= StandardSlotCount {
		return fmt.Sprintf("standard(%d)", int(s))
	}
	return standardSlotNames[s]
}

// Group returns the only module group the slot accepts
func (s StandardSlot) Group() string {
	return standardSlotGroups[s]
}

// ParseStandardSlot accepts either the slot name or its module group
func ParseStandardSlot(name string) (StandardSlot, error) {
	for i := 0; i < StandardSlotCount; i++ {
		if standardSlotNames[i] == name || standardSlotGroups[i] == name {
			return StandardSlot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown standard slot %q", name)
}

// StandardSlots lists every standard slot in code order
func StandardSlots() []StandardSlot {
	slots := make([]StandardSlot, StandardSlotCount)
	for i := range slots {
		slots[i] = StandardSlot(i)
	}
	return slots
}

// RefKind says which slot group a SlotRef addresses
type RefKind int

const (
	RefStandard RefKind = iota
	RefHardpoint
	RefInternal
	RefBulkhead
	RefCargoHatch
	RefHull
)

// SlotRef addresses one slot of a ship. Index is the StandardSlot for RefStandard, the
// position in the group for hardpoints and internals, and ignored for the singletons.
type SlotRef struct {
	Kind  RefKind
	Index int
}

func StandardRef(slot StandardSlot) SlotRef { return SlotRef{Kind: RefStandard, Index: int(slot)} }
func HardpointRef(index int) SlotRef        { return SlotRef{Kind: RefHardpoint, Index: index} }
func InternalRef(index int) SlotRef         { return SlotRef{Kind: RefInternal, Index: index} }

var (
	BulkheadRef   = SlotRef{Kind: RefBulkhead}
	CargoHatchRef = SlotRef{Kind: RefCargoHatch}
	HullRef       = SlotRef{Kind: RefHull}
)

func (r SlotRef) String() string {
	switch r.Kind {
	case RefStandard:
		return StandardSlot(r.Index).String()
	case RefHardpoint:
		return fmt.Sprintf("hardpoint[%d]", r.Index)
	case RefInternal:
		return fmt.Sprintf("internal[%d]", r.Index)
	case RefBulkhead:
		return "bulkhead"
	case RefCargoHatch:
		return "cargo_hatch"
	case RefHull:
		return "hull"
	}
	return fmt.Sprintf("slot(%d,%d)", int(r.Kind), r.Index)
}

// Slot holds at most one installed module plus its power and cost flags.
//
// Invariants:
// - The installed module fits: its class does not exceed maxClass and its group is
//   eligible for the slot
// - discountedCost is the installed module's cost under the current multiplier, or 0
type Slot struct {
	ref          SlotRef
	maxClass     int
	eligible     []string
	module       *Module
	enabled      bool
	priority     int
	costIncluded bool
	cost         int64
}

func newSlot(ref SlotRef, maxClass int, eligible []string) *Slot {
	return &Slot{
		ref:          ref,
		maxClass:     maxClass,
		eligible:     eligible,
		enabled:      true,
		costIncluded: true,
	}
}

func (s *Slot) Ref() SlotRef          { return s.ref }
func (s *Slot) Module() *Module       { return s.module }
func (s *Slot) MaxClass() int         { return s.maxClass }
func (s *Slot) Eligible() []string    { return s.eligible }
func (s *Slot) Enabled() bool         { return s.enabled }
func (s *Slot) Priority() int         { return s.priority }
func (s *Slot) CostIncluded() bool    { return s.costIncluded }
func (s *Slot) DiscountedCost() int64 { return s.cost }
func (s *Slot) IsEmpty() bool         { return s.module == nil }

// IsUtility reports whether the slot is a class 0 utility mount
func (s *Slot) IsUtility() bool {
	return s.ref.Kind == RefHardpoint && s.maxClass == 0
}

// drawsDeployed reports whether m draws power only while hardpoints are deployed.
// Active hardpoint modules do; passive modules and everything outside the hardpoints
// draw all the time.
func (s *Slot) drawsDeployed(m *Module) bool {
	return s.ref.Kind == RefHardpoint && !m.Passive
}

// hasPowerState reports whether the slot appears in the enabled and priority flags
func (s *Slot) hasPowerState() bool {
	switch s.ref.Kind {
	case RefStandard, RefHardpoint, RefInternal, RefCargoHatch:
		return true
	}
	return false
}

// accepts checks that m may be installed in the slot. A nil module always fits.
func (s *Slot) accepts(m *Module) error {
	if m == nil {
		return nil
	}
	slot := s.ref.String()
	reject := func(reason string) error {
		return shared.NewModuleNotAllowedError(slot, m.Token(), reason)
	}

	switch s.ref.Kind {
	case RefStandard:
		want := StandardSlot(s.ref.Index).Group()
		if m.Category != CategoryStandard || m.Group != want {
			return reject(fmt.Sprintf("slot takes %s modules, got %s", want, m.Group))
		}
	case RefHardpoint:
		if m.Category != CategoryHardpoint {
			return reject(fmt.Sprintf("%s module in a hardpoint", m.Category))
		}
		if s.maxClass == 0 && m.Class != 0 {
			return reject("utility mounts only take class 0 modules")
		}
		if s.maxClass > 0 && m.Class == 0 {
			return reject("weapon hardpoints do not take utility modules")
		}
	case RefInternal:
		if m.Category != CategoryInternal {
			return reject(fmt.Sprintf("%s module in an internal slot", m.Category))
		}
		if !s.groupEligible(m.Group) {
			return reject(fmt.Sprintf("group %s not eligible", m.Group))
		}
	case RefBulkhead:
		if m.Group != GroupBulkhead {
			return reject("not a bulkhead")
		}
		return nil
	case RefCargoHatch:
		if m.Group != GroupCargoHatch {
			return reject("not a cargo hatch")
		}
		return nil
	default:
		return reject("slot does not hold modules")
	}

	if m.Class > s.maxClass {
		return reject(fmt.Sprintf("class %d exceeds slot class %d", m.Class, s.maxClass))
	}
	return nil
}

func (s *Slot) groupEligible(group string) bool {
	if len(s.eligible) == 0 {
		return true
	}
	for _, g := range s.eligible {
		if g == group || (IsShieldGeneratorGroup(g) && IsShieldGeneratorGroup(group)) {
			return true
		}
	}
	return false
}
