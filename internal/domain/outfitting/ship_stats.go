package outfitting

import (
	"fmt"
	"math"
)

// statsDirty records which cross-cutting recomputations are pending
type statsDirty uint8

const (
	dirtyPower statsDirty = 1 << iota
	dirtySpeed
	dirtyJump
	dirtyShield

	dirtyAll = dirtyPower | dirtySpeed | dirtyJump | dirtyShield
)

func (d statsDirty) has(flag statsDirty) bool {
	return d&flag != 0
}

// Stats is a snapshot of the derived figures of a ship
type Stats struct {
	HullMass      float64
	UnladenMass   float64
	LadenMass     float64
	FuelCapacity  float64
	CargoCapacity float64

	Armour         float64
	ShieldStrength float64

	TopSpeed  float64
	TopBoost  float64
	Speeds    Speeds
	CanThrust bool
	CanBoost  bool

	UnladenRange      float64
	LadenRange        float64
	FullTankRange     float64
	UnladenTotalRange float64
	LadenTotalRange   float64
	MaxJumpCount      int

	TotalCost int64
	TotalDPS  float64

	PowerAvailable float64
	PowerRetracted float64
	PowerDeployed  float64
}

// Stats returns the current snapshot
func (s *Ship) Stats() Stats {
	return Stats{
		HullMass:          s.props.HullMass,
		UnladenMass:       s.unladenMass.float(),
		LadenMass:         s.ladenMass().float(),
		FuelCapacity:      s.fuelCapacity.float(),
		CargoCapacity:     s.cargoCapacity.float(),
		Armour:            s.armour(),
		ShieldStrength:    s.shieldStrength,
		TopSpeed:          s.speeds.FourPips,
		TopBoost:          s.speeds.Boost,
		Speeds:            s.speeds,
		CanThrust:         s.CanThrust(),
		CanBoost:          s.CanBoost(),
		UnladenRange:      s.unladenRange,
		LadenRange:        s.ladenRange,
		FullTankRange:     s.fullTankRange,
		UnladenTotalRange: s.unladenTotalRange,
		LadenTotalRange:   s.ladenTotalRange,
		MaxJumpCount:      s.maxJumpCount,
		TotalCost:         s.totalCost,
		TotalDPS:          s.totalDPS.float(),
		PowerAvailable:    s.powerAvailable.float(),
		PowerRetracted:    s.powerRetracted.float(),
		PowerDeployed:     s.powerDeployed.float(),
	}
}

func (s *Ship) ladenMass() milli {
	return s.unladenMass + s.cargoCapacity + s.fuelCapacity
}

func (s *Ship) armour() float64 {
	return s.armourAdded.float() + math.Round(s.props.BaseArmour*s.armourMul)
}

// use installs m in slot. Installing a unique module into an internal slot first
// empties whichever other internal slot holds the same family. Nothing is flushed;
// callers decide when recomputation runs.
func (s *Ship) use(slot *Slot, m *Module) {
	if sameModule(slot.module, m) {
		return
	}
	if slot.ref.Kind == RefInternal && m != nil && m.IsUnique() {
		for _, other := range s.internal {
			if other != slot && other.module != nil && sameFamily(other.module.Group, m.Group) {
				s.swap(other, nil)
			}
		}
	}
	s.swap(slot, m)
}

func (s *Ship) swap(slot *Slot, m *Module) {
	s.contribute(slot, slot.module, -1)
	slot.module = m
	slot.cost = 0
	if m != nil {
		slot.cost = discountedCost(m.Cost, s.multiplierFor(slot))
	}
	s.contribute(slot, m, 1)
	s.code.invalidateSlot(slot.ref.Kind)
}

func (s *Ship) multiplierFor(slot *Slot) float64 {
	if slot == s.hull {
		return s.shipCostMultiplier
	}
	return s.moduleCostMultiplier
}

// contribute adds (sign 1) or removes (sign -1) the share of m in the cumulative
// aggregates and marks the recomputations it affects.
func (s *Ship) contribute(slot *Slot, m *Module, sign milli) {
	if m == nil {
		return
	}

	switch m.Group {
	case GroupFuelTank:
		s.fuelCapacity += sign * toMilli(m.Capacity)
		s.dirty |= dirtySpeed | dirtyJump
	case GroupCargoRack:
		s.cargoCapacity += sign * toMilli(m.Capacity)
		s.dirty |= dirtyJump
	case GroupHullReinforcement:
		s.armourAdded += sign * toMilli(m.ArmourAdd)
	}

	if slot.costIncluded {
		s.totalCost += int64(sign) * slot.cost
	}

	if m.Mass != 0 {
		s.unladenMass += sign * toMilli(m.Mass)
		s.dirty |= dirtySpeed | dirtyJump
	}

	switch {
	case slot.ref == StandardRef(PowerPlant):
		s.dirty |= dirtyPower
	case slot.ref == StandardRef(Thrusters):
		s.dirty |= dirtySpeed
	case slot.ref == StandardRef(FrameShiftDrive):
		s.dirty |= dirtyJump
	}

	s.contributePower(slot, m, sign)
}

// contributePower handles the enabled-dependent share of m: its power draw, its damage
// and a shield booster's multiplier. Disabled slots contribute nothing.
func (s *Ship) contributePower(slot *Slot, m *Module, sign milli) {
	if m == nil || !slot.hasPowerState() {
		return
	}
	if m.IsShieldGenerator() {
		s.dirty |= dirtyShield
	}
	if !slot.enabled {
		return
	}

	if m.Power != 0 {
		s.bands.add(slot.priority, slot.drawsDeployed(m), sign*toMilli(m.Power))
		s.dirty |= dirtyPower
	}
	if m.IsWeapon() {
		s.totalDPS += sign * toMilli(m.DPS)
	}
	if m.Group == GroupShieldBooster {
		s.shieldMul += sign * toMilli(m.ShieldMul)
		s.dirty |= dirtyShield
	}
}

// flush runs the pending recomputations unless a batch is open
func (s *Ship) flush() {
	if s.batchDepth > 0 {
		return
	}
	d := s.dirty
	s.dirty = 0

	if d.has(dirtyPower) {
		s.updatePower()
	}
	if d.has(dirtySpeed) {
		s.updateSpeed()
	}
	if d.has(dirtyJump) {
		s.updateJump()
	}
	if d.has(dirtyShield) {
		s.updateShield()
	}

	if debugAssertions {
		if err := s.VerifyInvariants(); err != nil {
			panic(err)
		}
	}
}

func (s *Ship) updatePower() {
	s.bands.recompute()
	s.powerAvailable = 0
	if pp := s.standard[PowerPlant].module; pp != nil {
		s.powerAvailable = toMilli(pp.PowerGen)
	}
	s.powerRetracted = s.bands.retractedTotal()
	s.powerDeployed = s.bands.deployedTotal()
}

func (s *Ship) updateSpeed() {
	s.speeds = ShipSpeeds(
		(s.unladenMass + s.fuelCapacity).float(),
		s.props.Speed,
		s.props.Boost,
		s.standard[Thrusters].module,
		s.props.PipSpeed,
	)
}

func (s *Ship) updateJump() {
	fsd := s.standard[FrameShiftDrive].module
	if fsd == nil {
		s.unladenRange, s.fullTankRange, s.ladenRange = 0, 0, 0
		s.unladenTotalRange, s.ladenTotalRange = 0, 0
		s.maxJumpCount = 0
		return
	}

	unladen := s.unladenMass.float()
	fuel := s.fuelCapacity.float()
	cargo := s.cargoCapacity.float()

	s.unladenRange = JumpRange(unladen+fsd.MaxFuel, fsd, fuel)
	s.fullTankRange = JumpRange(unladen+fuel, fsd, fuel)
	s.ladenRange = JumpRange(s.ladenMass().float(), fsd, fuel)
	s.unladenTotalRange = TotalRange(unladen, fsd, fuel)
	s.ladenTotalRange = TotalRange(unladen+cargo, fsd, fuel)
	s.maxJumpCount = MaxJumpCount(fuel, fsd)
}

func (s *Ship) updateShield() {
	s.shieldStrength = 0
	slot, ok := s.FindInternalByGroup(GroupShieldGenerator)
	if !ok || !slot.enabled {
		return
	}
	s.shieldStrength = ShieldStrength(s.props.HullMass, s.props.BaseShieldStrength, slot.module, s.shieldMul.float())
}

// Batch runs fn with the recomputation of power, speeds, jump ranges and shield
// strength held back until fn returns, then runs it once. The recomputation runs even
// when fn fails: changes made before the failure are kept and the ship stays
// consistent.
func (s *Ship) Batch(fn func(b *Batch) error) (Stats, error) {
	s.batchDepth++
	err := func() error {
		defer func() {
			s.batchDepth--
			s.flush()
		}()
		return fn(&Batch{ship: s})
	}()
	return s.Stats(), err
}

// Batch exposes the ship mutations without per-call recomputation
type Batch struct {
	ship *Ship
}

// Install puts m in the slot; a nil module empties it
func (b *Batch) Install(ref SlotRef, m *Module) error {
	return b.ship.install(ref, m)
}

func (b *Batch) Remove(ref SlotRef) error {
	return b.ship.install(ref, nil)
}

func (b *Batch) SetEnabled(ref SlotRef, enabled bool) error {
	return b.ship.setEnabled(ref, enabled)
}

func (b *Batch) SetPriority(ref SlotRef, priority int) error {
	return b.ship.setPriority(ref, priority)
}

func (b *Batch) UseBulkhead(index int) error {
	return b.ship.installBulkhead(index)
}

// VerifyInvariants recomputes every cumulative aggregate and the power bands from the
// installed modules and reports the first mismatch with the incrementally maintained
// values. Builds tagged outfitdebug run it after every flush.
func (s *Ship) VerifyInvariants() error {
	var (
		mass, fuel, cargo, armour, dps milli
		shieldMul                      = toMilli(1)
		cost                           int64
		bands                          PriorityBands
	)
	mass = toMilli(s.props.HullMass)

	for _, slot := range s.costSlots() {
		m := slot.module
		if m == nil {
			continue
		}
		if err := slot.accepts(m); err != nil && slot != s.hull {
			return fmt.Errorf("slot %s holds an ineligible module: %w", slot.ref, err)
		}
		if slot.costIncluded {
			cost += slot.cost
		}
		if slot == s.hull {
			continue
		}
		mass += toMilli(m.Mass)
		switch m.Group {
		case GroupFuelTank:
			fuel += toMilli(m.Capacity)
		case GroupCargoRack:
			cargo += toMilli(m.Capacity)
		case GroupHullReinforcement:
			armour += toMilli(m.ArmourAdd)
		}
		if slot.hasPowerState() && slot.enabled {
			if m.Power != 0 {
				bands.add(slot.priority, slot.drawsDeployed(m), toMilli(m.Power))
			}
			dps += toMilli(m.DPS)
			if m.Group == GroupShieldBooster {
				shieldMul += toMilli(m.ShieldMul)
			}
		}
	}

	families := map[string]bool{}
	for _, slot := range s.internal {
		if slot.module == nil || !slot.module.IsUnique() {
			continue
		}
		family := slot.module.Group
		if slot.module.IsShieldGenerator() {
			family = GroupShieldGenerator
		}
		if families[family] {
			return fmt.Errorf("more than one %s module installed", family)
		}
		families[family] = true
	}

	checks := []struct {
		name        string
		got, wanted milli
	}{
		{"unladen mass", s.unladenMass, mass},
		{"fuel capacity", s.fuelCapacity, fuel},
		{"cargo capacity", s.cargoCapacity, cargo},
		{"armour added", s.armourAdded, armour},
		{"total dps", s.totalDPS, dps},
		{"shield multiplier", s.shieldMul, shieldMul},
	}
	for _, c := range checks {
		if c.got != c.wanted {
			return fmt.Errorf("%s drifted: have %v, recomputed %v", c.name, c.got.float(), c.wanted.float())
		}
	}
	if s.totalCost != cost {
		return fmt.Errorf("total cost drifted: have %d, recomputed %d", s.totalCost, cost)
	}

	if s.dirty.has(dirtyPower) {
		bands.recompute()
		for i := range bands.bands {
			if bands.bands[i].retracted != s.bands.bands[i].retracted || bands.bands[i].deployed != s.bands.bands[i].deployed {
				return fmt.Errorf("priority band %d drifted: have %+v, recomputed %+v", i, s.bands.Band(i), bands.Band(i))
			}
		}
		return nil
	}
	bands.recompute()
	if bands != s.bands {
		for i := range bands.bands {
			if bands.bands[i] != s.bands.bands[i] {
				return fmt.Errorf("priority band %d drifted: have %+v, recomputed %+v", i, s.bands.Band(i), bands.Band(i))
			}
		}
	}
	return nil
}
