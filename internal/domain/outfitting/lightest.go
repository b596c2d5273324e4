package outfitting

import (
	"fmt"

	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// searchedSlots are the standard slots the lightest configuration search fills. The
// fuel tank is never touched.
var searchedSlots = []StandardSlot{PowerPlant, Thrusters, FrameShiftDrive, LifeSupport, PowerDistributor, Sensors}

// Overrides pins modules during the lightest configuration search. Modules maps a
// standard slot to a class+rating token; PowerPlantRating is the worst power plant
// rating the search may pick.
type Overrides struct {
	Modules          map[StandardSlot]string
	PowerPlantRating string
}

// LightestInput is the part of a ship the search needs, taken with the searched slots
// and the bulkhead removed.
type LightestInput struct {
	MaxClass    [StandardSlotCount]int
	Enabled     [StandardSlotCount]bool
	BoostEnergy float64

	// BaseMass is the laden mass without the bulkhead and the searched modules
	BaseMass float64

	// BasePower is the deployed power draw without the searched modules
	BasePower float64

	// Bulkhead is the bulkhead the search fits, always index 0
	Bulkhead *Module
}

// StandardConfiguration is the search result for the searched slots. The fuel tank
// entry of Modules is ignored.
type StandardConfiguration struct {
	Bulkhead int
	Modules  [StandardSlotCount]*Module
}

// LightestResult reports the configuration found and the slots whose constraint no
// catalog module met. Converged is false when the search hit its iteration bound.
type LightestResult struct {
	Configuration StandardConfiguration
	Infeasible    []StandardSlot
	Iterations    int
	Converged     bool
}

// Err returns an InfeasibleConfigurationError when any slot could not be satisfied
func (r LightestResult) Err() error {
	if len(r.Infeasible) == 0 {
		return nil
	}
	names := make([]string, len(r.Infeasible))
	for i, k := range r.Infeasible {
		names[i] = k.String()
	}
	return shared.NewInfeasibleConfigurationError(names)
}

// LightestInput snapshots the ship for FindLightestConfiguration
func (s *Ship) LightestInput() (LightestInput, error) {
	bulkhead, err := s.bulkheadModule(0)
	if err != nil {
		return LightestInput{}, err
	}

	in := LightestInput{
		BoostEnergy: s.props.BoostEnergy,
		Bulkhead:    bulkhead,
	}
	mass := s.ladenMass()
	power := s.bands.demand()
	if m := s.bulkhead.module; m != nil {
		mass -= toMilli(m.Mass)
	}
	for k, slot := range s.standard {
		in.MaxClass[k] = slot.maxClass
		in.Enabled[k] = slot.enabled
	}
	for _, k := range searchedSlots {
		slot := s.standard[k]
		if slot.module == nil {
			continue
		}
		mass -= toMilli(slot.module.Mass)
		if slot.enabled {
			power -= toMilli(slot.module.Power)
		}
	}
	in.BaseMass = mass.float()
	in.BasePower = power.float()
	return in, nil
}

// FindLightestConfiguration picks the lightest standard modules that keep the ship
// powered and able to boost. Frame shift drive, life support and sensors are chosen
// once (class A drive, class D support and sensors). The power distributor is the
// lightest one able to feed a boost. Thrusters and power plant depend on each other
// through mass and power draw, so they are picked alternately until neither changes.
// The alternation is bounded by the catalog size.
//
// A slot whose constraint no module meets gets the catalog's best effort, or stays
// empty, and is listed in Infeasible.
func FindLightestConfiguration(in LightestInput, catalog ModuleCatalog, overrides Overrides) LightestResult {
	var (
		cfg        StandardConfiguration
		infeasible [StandardSlotCount]bool
	)

	pinned := func(k StandardSlot) (*Module, bool) {
		token, ok := overrides.Modules[k]
		if !ok || token == "" {
			return nil, false
		}
		m := catalog.Standard(k, token)
		infeasible[k] = m == nil
		return m, true
	}
	pick := func(k StandardSlot, token string) *Module {
		if m, ok := pinned(k); ok {
			return m
		}
		m := catalog.Standard(k, token)
		infeasible[k] = m == nil
		return m
	}

	cfg.Modules[FrameShiftDrive] = pick(FrameShiftDrive, fmt.Sprintf("%dA", in.MaxClass[FrameShiftDrive]))
	cfg.Modules[LifeSupport] = pick(LifeSupport, fmt.Sprintf("%dD", in.MaxClass[LifeSupport]))
	cfg.Modules[Sensors] = pick(Sensors, fmt.Sprintf("%dD", in.MaxClass[Sensors]))
	if m, ok := pinned(PowerDistributor); ok {
		cfg.Modules[PowerDistributor] = m
	} else {
		m, feasible := catalog.LightestPowerDistributor(in.MaxClass[PowerDistributor], in.BoostEnergy)
		cfg.Modules[PowerDistributor] = m
		infeasible[PowerDistributor] = !feasible
	}

	massOf := func(m *Module) float64 {
		if m == nil {
			return 0
		}
		return m.Mass
	}
	powerOf := func(k StandardSlot, m *Module) float64 {
		if m == nil || !in.Enabled[k] {
			return 0
		}
		return m.Power
	}

	mass := in.BaseMass + massOf(in.Bulkhead)
	power := in.BasePower
	for _, k := range []StandardSlot{FrameShiftDrive, LifeSupport, Sensors, PowerDistributor} {
		mass += massOf(cfg.Modules[k])
		power += powerOf(k, cfg.Modules[k])
	}

	thrusters, thrustersPinned := pinned(Thrusters)
	powerPlant, powerPlantPinned := pinned(PowerPlant)
	cfg.Modules[Thrusters] = thrusters
	cfg.Modules[PowerPlant] = powerPlant

	result := LightestResult{}
	bound := catalog.Len() + 1
	for result.Iterations < bound {
		result.Iterations++
		updated := false

		if !thrustersPinned {
			laden := mass + massOf(cfg.Modules[Thrusters]) + massOf(cfg.Modules[PowerPlant])
			th, feasible := catalog.LightestThruster(in.MaxClass[Thrusters], laden)
			infeasible[Thrusters] = !feasible
			if !sameModule(th, cfg.Modules[Thrusters]) {
				cfg.Modules[Thrusters] = th
				updated = true
			}
		}

		if !powerPlantPinned {
			demand := power + powerOf(Thrusters, cfg.Modules[Thrusters]) + powerOf(PowerPlant, cfg.Modules[PowerPlant])
			pp, feasible := catalog.LightestPowerPlant(in.MaxClass[PowerPlant], demand, overrides.PowerPlantRating)
			infeasible[PowerPlant] = !feasible
			if !sameModule(pp, cfg.Modules[PowerPlant]) {
				cfg.Modules[PowerPlant] = pp
				updated = true
			}
		}

		if !updated {
			result.Converged = true
			break
		}
	}

	result.Configuration = cfg
	for _, k := range searchedSlots {
		if infeasible[k] {
			result.Infeasible = append(result.Infeasible, k)
		}
	}
	return result
}

// ApplyStandardConfiguration fits the configuration's bulkhead and searched slots in
// one batch. Every module is checked against its slot before anything changes.
func (s *Ship) ApplyStandardConfiguration(cfg StandardConfiguration) (Stats, error) {
	if _, err := s.bulkheadModule(cfg.Bulkhead); err != nil {
		return Stats{}, err
	}
	for _, k := range searchedSlots {
		if err := s.standard[k].accepts(cfg.Modules[k]); err != nil {
			return Stats{}, err
		}
	}
	return s.Batch(func(b *Batch) error {
		return s.applyStandardConfiguration(cfg)
	})
}

func (s *Ship) applyStandardConfiguration(cfg StandardConfiguration) error {
	for _, k := range searchedSlots {
		if err := s.standard[k].accepts(cfg.Modules[k]); err != nil {
			return err
		}
	}
	if err := s.installBulkhead(cfg.Bulkhead); err != nil {
		return err
	}
	for _, k := range searchedSlots {
		s.use(s.standard[k], cfg.Modules[k])
	}
	return nil
}
