package outfitting

import (
	"fmt"
	"math"

	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// Selection lists the module for every slot of a ship. Nil entries leave the slot
// empty; nil Hardpoints or Internal leave the whole group empty.
type Selection struct {
	Bulkhead   int
	Standard   [StandardSlotCount]*Module
	Hardpoints []*Module
	Internal   []*Module
}

// SlotFlags carries the enabled and priority flags in flag order: cargo hatch,
// standard, hardpoints, internal. A nil slice means every slot enabled, or every slot
// in band 0.
type SlotFlags struct {
	Enabled    []bool
	Priorities []int
}

// Install puts m in the slot, replacing whatever was there. A nil module empties the
// slot. Unique modules vacate any other internal slot of their family first.
func (s *Ship) Install(ref SlotRef, m *Module) (Stats, error) {
	if err := s.install(ref, m); err != nil {
		return Stats{}, err
	}
	s.flush()
	return s.Stats(), nil
}

// Remove empties the slot
func (s *Ship) Remove(ref SlotRef) (Stats, error) {
	return s.Install(ref, nil)
}

func (s *Ship) install(ref SlotRef, m *Module) error {
	slot, err := s.Slot(ref)
	if err != nil {
		return err
	}
	switch ref.Kind {
	case RefBulkhead:
		return shared.NewInvalidSlotError(ref.String(), "bulkheads are swapped with UseBulkhead")
	case RefCargoHatch, RefHull:
		return shared.NewInvalidSlotError(ref.String(), "slot is fixed")
	}
	if err := slot.accepts(m); err != nil {
		return err
	}
	s.use(slot, m)
	return nil
}

// SetEnabled switches a slot's power on or off
func (s *Ship) SetEnabled(ref SlotRef, enabled bool) (Stats, error) {
	if err := s.setEnabled(ref, enabled); err != nil {
		return Stats{}, err
	}
	s.flush()
	return s.Stats(), nil
}

func (s *Ship) setEnabled(ref SlotRef, enabled bool) error {
	slot, err := s.powerSlot(ref)
	if err != nil {
		return err
	}
	if slot.enabled == enabled {
		return nil
	}
	s.contributePower(slot, slot.module, -1)
	slot.enabled = enabled
	s.contributePower(slot, slot.module, 1)
	s.code.invalidate(segmentEnabled)
	return nil
}

// SetPriority moves a slot's power draw to another band. Out of range priorities are
// rejected and change nothing.
func (s *Ship) SetPriority(ref SlotRef, priority int) (Stats, error) {
	if err := s.setPriority(ref, priority); err != nil {
		return Stats{}, err
	}
	s.flush()
	return s.Stats(), nil
}

func (s *Ship) setPriority(ref SlotRef, priority int) error {
	if !validPriority(priority) {
		return shared.NewPriorityOutOfRangeError(priority, BandCount)
	}
	slot, err := s.powerSlot(ref)
	if err != nil {
		return err
	}
	if slot.priority == priority {
		return nil
	}
	s.contributePower(slot, slot.module, -1)
	slot.priority = priority
	s.contributePower(slot, slot.module, 1)
	s.code.invalidate(segmentPriorities)
	return nil
}

func (s *Ship) powerSlot(ref SlotRef) (*Slot, error) {
	slot, err := s.Slot(ref)
	if err != nil {
		return nil, err
	}
	if !slot.hasPowerState() {
		return nil, shared.NewInvalidSlotError(ref.String(), "slot has no power state")
	}
	return slot, nil
}

// SetCostIncluded decides whether the slot's discounted cost counts toward the total
func (s *Ship) SetCostIncluded(ref SlotRef, included bool) (Stats, error) {
	slot, err := s.Slot(ref)
	if err != nil {
		return Stats{}, err
	}
	if slot.costIncluded != included && slot.module != nil {
		if included {
			s.totalCost += slot.cost
		} else {
			s.totalCost -= slot.cost
		}
	}
	slot.costIncluded = included
	return s.Stats(), nil
}

// ApplyDiscounts reprices the hull with shipMultiplier and every module with
// moduleMultiplier (0.9 is a 10% discount), then recomputes the total cost.
func (s *Ship) ApplyDiscounts(shipMultiplier, moduleMultiplier float64) (Stats, error) {
	if !validMultiplier(shipMultiplier) {
		return Stats{}, shared.NewValidationError("ship_multiplier", "must be a positive number")
	}
	if !validMultiplier(moduleMultiplier) {
		return Stats{}, shared.NewValidationError("module_multiplier", "must be a positive number")
	}

	s.shipCostMultiplier = shipMultiplier
	s.moduleCostMultiplier = moduleMultiplier

	var total int64
	for _, slot := range s.costSlots() {
		if slot.module == nil {
			continue
		}
		slot.cost = discountedCost(slot.module.Cost, s.multiplierFor(slot))
		if slot.costIncluded {
			total += slot.cost
		}
	}
	s.totalCost = total
	return s.Stats(), nil
}

func validMultiplier(m float64) bool {
	return m > 0 && !math.IsInf(m, 0) && !math.IsNaN(m)
}

// UseBulkhead swaps in the ship's bulkhead for the index and applies its armour
// multiplier.
func (s *Ship) UseBulkhead(index int) (Stats, error) {
	if err := s.installBulkhead(index); err != nil {
		return Stats{}, err
	}
	s.flush()
	return s.Stats(), nil
}

func (s *Ship) installBulkhead(index int) error {
	m, err := s.bulkheadModule(index)
	if err != nil {
		return err
	}
	s.bulkheadIndex = index
	s.armourMul = ArmourMultipliers[index]
	s.use(s.bulkhead, m)
	s.code.invalidate(segmentStandard)
	return nil
}

func (s *Ship) bulkheadModule(index int) (*Module, error) {
	if index < 0 || index >= len(ArmourMultipliers) {
		return nil, shared.NewInvalidBulkheadError(s.id, index)
	}
	m := s.catalog.Bulkhead(s.id, index)
	if m == nil {
		return nil, shared.NewInvalidBulkheadError(s.id, index)
	}
	return m, nil
}

// BuildWith refits the whole ship from a selection. The selection and flags are
// checked in full first: a rejected build leaves the ship as it was.
func (s *Ship) BuildWith(sel Selection, flags SlotFlags) (Stats, error) {
	bulkhead, err := s.validateBuild(sel, flags)
	if err != nil {
		return Stats{}, err
	}

	s.batchDepth++
	s.resetFit()

	powerSlots := s.powerSlots()
	for i, slot := range powerSlots {
		slot.enabled = flags.Enabled == nil || flags.Enabled[i]
		slot.priority = 0
		if flags.Priorities != nil {
			slot.priority = flags.Priorities[i]
		}
	}

	s.use(s.cargoHatch, s.catalog.CargoHatch())
	s.bulkheadIndex = sel.Bulkhead
	s.armourMul = ArmourMultipliers[sel.Bulkhead]
	s.use(s.bulkhead, bulkhead)

	for i, m := range sel.Standard {
		s.use(s.standard[i], m)
	}
	for i, m := range sel.Hardpoints {
		s.use(s.hardpoints[i], m)
	}
	for i, m := range sel.Internal {
		s.use(s.internal[i], m)
	}

	s.code.invalidateAll()
	s.dirty = dirtyAll
	s.batchDepth--
	s.flush()
	return s.Stats(), nil
}

// validateBuild checks everything BuildWith needs and returns the bulkhead module
func (s *Ship) validateBuild(sel Selection, flags SlotFlags) (*Module, error) {
	bulkhead, err := s.bulkheadModule(sel.Bulkhead)
	if err != nil {
		return nil, err
	}
	if s.catalog.CargoHatch() == nil {
		return nil, shared.NewInvalidShipDataError("catalog has no cargo hatch")
	}

	if sel.Hardpoints != nil && len(sel.Hardpoints) != len(s.hardpoints) {
		return nil, shared.NewValidationError("hardpoints",
			fmt.Sprintf("expected %d modules, got %d", len(s.hardpoints), len(sel.Hardpoints)))
	}
	if sel.Internal != nil && len(sel.Internal) != len(s.internal) {
		return nil, shared.NewValidationError("internal",
			fmt.Sprintf("expected %d modules, got %d", len(s.internal), len(sel.Internal)))
	}

	flagCount := s.Layout().FlagCount()
	if flags.Enabled != nil && len(flags.Enabled) != flagCount {
		return nil, shared.NewValidationError("enabled",
			fmt.Sprintf("expected %d flags, got %d", flagCount, len(flags.Enabled)))
	}
	if flags.Priorities != nil {
		if len(flags.Priorities) != flagCount {
			return nil, shared.NewValidationError("priorities",
				fmt.Sprintf("expected %d flags, got %d", flagCount, len(flags.Priorities)))
		}
		for _, p := range flags.Priorities {
			if !validPriority(p) {
				return nil, shared.NewPriorityOutOfRangeError(p, BandCount)
			}
		}
	}

	for i, m := range sel.Standard {
		if err := s.standard[i].accepts(m); err != nil {
			return nil, err
		}
	}
	for i, m := range sel.Hardpoints {
		if err := s.hardpoints[i].accepts(m); err != nil {
			return nil, err
		}
	}
	seen := map[string]int{}
	for i, m := range sel.Internal {
		if err := s.internal[i].accepts(m); err != nil {
			return nil, err
		}
		if m == nil || !m.IsUnique() {
			continue
		}
		family := m.Group
		if m.IsShieldGenerator() {
			family = GroupShieldGenerator
		}
		if first, ok := seen[family]; ok {
			return nil, shared.NewModuleNotAllowedError(InternalRef(i).String(), m.Token(),
				fmt.Sprintf("only one %s module per ship, already selected for %s", family, InternalRef(first)))
		}
		seen[family] = i
	}
	return bulkhead, nil
}

// resetFit empties every slot and zeroes the cumulative aggregates without touching
// flags or discounts.
func (s *Ship) resetFit() {
	s.unladenMass = toMilli(s.props.HullMass)
	s.fuelCapacity = 0
	s.cargoCapacity = 0
	s.armourAdded = 0
	s.shieldMul = toMilli(1)
	s.totalDPS = 0
	s.armourMul = 1
	s.bands.reset()

	s.totalCost = 0
	if s.hull.costIncluded {
		s.totalCost = s.hull.cost
	}
	for _, slot := range s.costSlots() {
		if slot == s.hull {
			continue
		}
		slot.module = nil
		slot.cost = 0
	}
}

// UseStandard fits every standard slot except the fuel tank with the largest module
// of the given rating. Slots the catalog has no such module for are emptied.
func (s *Ship) UseStandard(rating string) (Stats, error) {
	picks := make(map[StandardSlot]*Module)
	for k := PowerPlant; k < FuelTank; k++ {
		slot := s.standard[k]
		m := s.catalog.Standard(k, fmt.Sprintf("%d%s", slot.maxClass, rating))
		if err := slot.accepts(m); err != nil {
			return Stats{}, err
		}
		picks[k] = m
	}
	return s.Batch(func(b *Batch) error {
		for k := PowerPlant; k < FuelTank; k++ {
			s.use(s.standard[k], picks[k])
		}
		return nil
	})
}

// UseUtility fits utility mounts with the matching class 0 module. Occupied mounts are
// only replaced when clobber is set. Nothing changes when no module matches.
func (s *Ship) UseUtility(group, rating, name string, clobber bool) (Stats, error) {
	m := s.catalog.FindHardpoint(HardpointQuery{Group: group, Class: 0, Rating: rating, Name: name})
	if m == nil {
		return s.Stats(), nil
	}
	return s.Batch(func(b *Batch) error {
		for _, slot := range s.hardpoints {
			if !slot.IsUtility() || (!clobber && slot.module != nil) {
				continue
			}
			if err := slot.accepts(m); err != nil {
				return err
			}
			s.use(slot, m)
		}
		return nil
	})
}

// UseWeapon fits weapon hardpoints with the matching weapon, stepping down in size
// until the catalog has one. Occupied hardpoints are only replaced when clobber is set.
func (s *Ship) UseWeapon(group, mount, missile string, clobber bool) (Stats, error) {
	return s.Batch(func(b *Batch) error {
		for _, slot := range s.hardpoints {
			if slot.IsUtility() || (!clobber && slot.module != nil) {
				continue
			}
			for size := slot.maxClass; size > 0; size-- {
				m := s.catalog.FindHardpoint(HardpointQuery{Group: group, Class: size, Mount: mount, Missile: missile})
				if m == nil {
					continue
				}
				if err := slot.accepts(m); err != nil {
					return err
				}
				s.use(slot, m)
				break
			}
		}
		return nil
	})
}

// EmptyHardpoints removes every hardpoint module
func (s *Ship) EmptyHardpoints() Stats {
	return s.emptyWhere(s.hardpoints, func(*Slot) bool { return true })
}

// EmptyInternal removes every internal module
func (s *Ship) EmptyInternal() Stats {
	return s.emptyWhere(s.internal, func(*Slot) bool { return true })
}

// EmptyUtility removes the modules in utility mounts
func (s *Ship) EmptyUtility() Stats {
	return s.emptyWhere(s.hardpoints, (*Slot).IsUtility)
}

// EmptyWeapons removes the modules in weapon hardpoints
func (s *Ship) EmptyWeapons() Stats {
	return s.emptyWhere(s.hardpoints, func(slot *Slot) bool { return !slot.IsUtility() })
}

func (s *Ship) emptyWhere(slots []*Slot, match func(*Slot) bool) Stats {
	stats, _ := s.Batch(func(b *Batch) error {
		for _, slot := range slots {
			if match(slot) {
				s.use(slot, nil)
			}
		}
		return nil
	})
	return stats
}

// OptimizeMass strips the hardpoints and internals and fits the lightest standard
// modules that still power the ship and let it boost.
func (s *Ship) OptimizeMass(overrides Overrides) (LightestResult, Stats, error) {
	if _, err := s.bulkheadModule(0); err != nil {
		return LightestResult{}, Stats{}, err
	}

	var result LightestResult
	stats, err := s.Batch(func(b *Batch) error {
		for _, slot := range s.hardpoints {
			s.use(slot, nil)
		}
		for _, slot := range s.internal {
			s.use(slot, nil)
		}
		if err := s.installBulkhead(0); err != nil {
			return err
		}

		input, err := s.LightestInput()
		if err != nil {
			return err
		}
		result = FindLightestConfiguration(input, s.catalog, overrides)
		return s.applyStandardConfiguration(result.Configuration)
	})
	if err != nil {
		return LightestResult{}, Stats{}, err
	}
	return result, stats, nil
}
