package helpers

import (
	"github.com/andrescamacho/outfitting-go/internal/adapters/catalog"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// TestShipID is the ship type of the fixture catalog
const TestShipID = "testship"

// FixtureData builds a small catalog with round figures so expected stats can be
// worked out by hand.
//
// testship: hull 100t, 10000 credits, armour 100, shield 100, speed 200/300, boost
// energy 10, pip speed 0.125. Standard classes 3,3,3,2,2,2,2; hardpoints 2,1,0,0;
// internal 3, 2, 2 and a class 1 slot taking cargo racks only.
func FixtureData() catalog.Data {
	return catalog.Data{
		CargoHatch: catalog.ModuleRecord{
			Group: outfitting.GroupCargoHatch, Category: "system", Name: "Cargo Hatch", Class: 1, Rating: "H", Power: 0.5,
		},
		Ships: []catalog.ShipRecord{{
			ID:          TestShipID,
			Name:        "Test Ship",
			HullMass:    100,
			HullCost:    10000,
			BaseArmour:  100,
			BaseShield:  100,
			Speed:       200,
			Boost:       300,
			BoostEnergy: 10,
			PipSpeed:    0.125,
			Slots: catalog.SlotsRecord{
				Standard:   []int{3, 3, 3, 2, 2, 2, 2},
				Hardpoints: []int{2, 1, 0, 0},
				Internal: []catalog.InternalRecord{
					{Class: 3}, {Class: 2}, {Class: 2}, {Class: 1, Eligible: []string{outfitting.GroupCargoRack}},
				},
			},
			Bulkheads: []catalog.BulkheadRecord{
				{Name: "Lightweight Alloy", Mass: 0, Cost: 0},
				{Name: "Reinforced Alloy", Mass: 10, Cost: 1000},
				{Name: "Military Grade Composite", Mass: 20, Cost: 2000},
				{Name: "Mirrored Surface Composite", Mass: 20, Cost: 3000},
				{Name: "Reactive Surface Composite", Mass: 20, Cost: 4000},
			},
		}},
		Modules: fixtureModules(),
	}
}

func standard(group string, class int, rating string, mass, power float64, cost int64) catalog.ModuleRecord {
	return catalog.ModuleRecord{
		Group: group, Category: "standard", Class: class, Rating: rating, Mass: mass, Power: power, Cost: cost,
	}
}

func fixtureModules() []catalog.ModuleRecord {
	var mods []catalog.ModuleRecord

	pp := func(class int, rating string, gen, mass float64, cost int64) {
		m := standard(outfitting.GroupPowerPlant, class, rating, mass, 0, cost)
		m.PowerGen = gen
		mods = append(mods, m)
	}
	pp(1, "A", 5, 0.5, 300)
	pp(2, "A", 10, 2, 1000)
	pp(2, "D", 8, 1, 200)
	pp(3, "A", 15, 4, 3000)
	pp(3, "D", 12, 3, 500)
	pp(3, "E", 9, 6, 100)

	thrusters := func(class int, rating string, opt, mass, power float64, cost int64) {
		m := standard(outfitting.GroupThrusters, class, rating, mass, power, cost)
		m.MinMass, m.OptMass, m.MaxMass = opt/2, opt, opt*1.5
		mods = append(mods, m)
	}
	thrusters(2, "A", 125, 2.5, 2.4, 1500)
	thrusters(2, "D", 100, 2, 2, 200)
	thrusters(3, "A", 150, 5, 3, 2000)
	thrusters(3, "D", 120, 3, 2.5, 500)

	fsd := func(class int, rating string, opt, maxFuel, mass, power float64, cost int64) {
		m := standard(outfitting.GroupFrameShiftDrive, class, rating, mass, power, cost)
		m.OptMass, m.MaxFuel, m.FuelMul, m.FuelPower = opt, maxFuel, 0.01, 2
		mods = append(mods, m)
	}
	fsd(2, "A", 120, 1, 3, 0.3, 2500)
	fsd(3, "A", 200, 2, 5, 0.5, 5000)
	fsd(3, "D", 150, 1.5, 2, 0.4, 1000)

	mods = append(mods,
		standard(outfitting.GroupLifeSupport, 1, "D", 0.5, 0.4, 100),
		standard(outfitting.GroupLifeSupport, 2, "A", 2, 0.6, 1500),
		standard(outfitting.GroupLifeSupport, 2, "D", 1, 0.5, 300),
		standard(outfitting.GroupSensors, 1, "D", 0.5, 0.2, 100),
		standard(outfitting.GroupSensors, 2, "A", 2, 0.5, 1500),
		standard(outfitting.GroupSensors, 2, "D", 1, 0.3, 300),
	)

	pd := func(class int, rating string, capacity, mass, power float64, cost int64) {
		m := standard(outfitting.GroupPowerDistributor, class, rating, mass, power, cost)
		m.EngineCapacity = capacity
		mods = append(mods, m)
	}
	pd(1, "D", 6, 0.5, 0.3, 50)
	pd(2, "A", 12, 2, 0.6, 2000)
	pd(2, "D", 10, 1, 0.5, 400)
	pd(2, "E", 8, 1.5, 0.4, 100)

	tank := func(class int, capacity float64, cost int64) {
		m := standard(outfitting.GroupFuelTank, class, "C", 0, 0, cost)
		m.Capacity = capacity
		mods = append(mods, m)
	}
	tank(1, 2, 100)
	tank(2, 4, 500)

	hardpoint := func(id, group, name string, class int, rating string, mass, power float64, cost int64) catalog.ModuleRecord {
		return catalog.ModuleRecord{
			ID: id, Group: group, Category: "hardpoint", Name: name, Class: class, Rating: rating,
			Mass: mass, Power: power, Cost: cost,
		}
	}
	weapon := func(id, group, name string, class int, mount, missile string, mass, power, dps float64, cost int64) {
		m := hardpoint(id, group, name, class, "F", mass, power, cost)
		m.Mount, m.Missile, m.DPS = mount, missile, dps
		mods = append(mods, m)
	}
	weapon("1a", "pl", "Pulse Laser", 1, "F", "", 2, 0.5, 10, 1000)
	weapon("1b", "pl", "Pulse Laser", 1, "G", "", 2, 0.6, 8, 2000)
	weapon("2a", "pl", "Pulse Laser", 2, "F", "", 4, 1, 18, 4000)
	weapon("2b", "mc", "Multi-cannon", 2, "T", "", 4, 0.8, 12, 5000)
	weapon("m1", "mr", "Missile Rack", 1, "F", "D", 2, 0.4, 20, 3000)
	weapon("m2", "mr", "Seeker Missile Rack", 1, "F", "S", 2, 0.4, 15, 6000)

	booster := func(id, rating string, mul, mass, power float64, cost int64) {
		m := hardpoint(id, outfitting.GroupShieldBooster, "Shield Booster", 0, rating, mass, power, cost)
		m.ShieldMul = mul
		mods = append(mods, m)
	}
	booster("0s", "E", 0.1, 1, 0.2, 1000)
	booster("0t", "A", 0.2, 3, 0.5, 5000)
	mods = append(mods, hardpoint("0h", "hs", "Heat Sink Launcher", 0, "I", 1.3, 0.2, 3500))
	scanner := hardpoint("0k", "kw", "Kill Warrant Scanner", 0, "E", 1.3, 0.2, 1000)
	scanner.Passive = true
	mods = append(mods, scanner)

	internal := func(id, group, name string, class int, rating string, mass, power float64, cost int64) catalog.ModuleRecord {
		return catalog.ModuleRecord{
			ID: id, Group: group, Category: "internal", Name: name, Class: class, Rating: rating,
			Mass: mass, Power: power, Cost: cost,
		}
	}
	rack := func(id string, class int, capacity float64, cost int64) {
		m := internal(id, outfitting.GroupCargoRack, "Cargo Rack", class, "E", 0, 0, cost)
		m.Capacity = capacity
		mods = append(mods, m)
	}
	rack("c1", 1, 2, 100)
	rack("c2", 2, 4, 300)
	rack("c3", 3, 8, 1000)

	shield := func(id, group string, class int, rating string, mass, power, minMul, optMul, maxMul float64, cost int64) {
		m := internal(id, group, "Shield Generator", class, rating, mass, power, cost)
		m.MinMass, m.OptMass, m.MaxMass = 50, 100, 200
		m.MinMul, m.OptMul, m.MaxMul = minMul, optMul, maxMul
		mods = append(mods, m)
	}
	shield("g2", outfitting.GroupShieldGenerator, 2, "C", 2, 1, 0.5, 1, 1.5, 2000)
	shield("g3", outfitting.GroupShieldGenerator, 3, "A", 3, 1.5, 0.7, 1.2, 1.7, 8000)
	shield("p2", outfitting.GroupPrismaticShield, 2, "A", 4, 2, 1, 1.5, 2, 10000)
	shield("b2", outfitting.GroupBiWeaveShield, 2, "C", 2, 1.2, 0.4, 0.9, 1.4, 3000)

	mods = append(mods,
		internal("s1", outfitting.GroupFuelScoop, "Fuel Scoop", 1, "E", 0, 0.2, 500),
		internal("s2", outfitting.GroupFuelScoop, "Fuel Scoop", 2, "E", 0, 0.3, 1000),
		internal("r1", outfitting.GroupRefinery, "Refinery", 1, "E", 0, 0.3, 600),
	)

	reinforcement := func(id string, class int, mass, armour float64, cost int64) {
		m := internal(id, outfitting.GroupHullReinforcement, "Hull Reinforcement Package", class, "E", mass, 0, cost)
		m.ArmourAdd = armour
		mods = append(mods, m)
	}
	reinforcement("h1", 1, 2, 30, 500)
	reinforcement("h2", 2, 4, 60, 1500)

	internalTank := internal("f1", outfitting.GroupFuelTank, "Fuel Tank", 1, "C", 0, 0, 100)
	internalTank.Capacity = 2
	mods = append(mods, internalTank)

	return mods
}

// NewFixtureCatalog returns the fixture catalog. It panics if the fixture data does not
// validate, which only a broken fixture can cause.
func NewFixtureCatalog() *catalog.Catalog {
	c, err := catalog.New(FixtureData())
	if err != nil {
		panic("fixture catalog: " + err.Error())
	}
	return c
}

// NewTestShip returns a fresh testship backed by the fixture catalog
func NewTestShip() (*outfitting.Ship, *catalog.Catalog) {
	c := NewFixtureCatalog()
	ship, err := c.NewShip(TestShipID)
	if err != nil {
		panic("fixture ship: " + err.Error())
	}
	return ship, c
}

// StandardFit lists the standard modules of the usual test configuration: power plant
// 3A, thrusters 3D, frame shift drive 3A, life support 2D, power distributor 2D,
// sensors 2D and a 2C fuel tank.
//
// Fitted to a fresh testship it gives unladen mass 115, fuel 4, retracted draw 4.8
// against 15 available, and total cost 20000.
var StandardFit = map[outfitting.StandardSlot]string{
	outfitting.PowerPlant:       "3A",
	outfitting.Thrusters:        "3D",
	outfitting.FrameShiftDrive:  "3A",
	outfitting.LifeSupport:      "2D",
	outfitting.PowerDistributor: "2D",
	outfitting.Sensors:          "2D",
	outfitting.FuelTank:         "2C",
}

// StandardFitCode is the build code of a fresh testship with StandardFit installed
const StandardFitCode = "03A3D3A2D2D2D2C--------.."

// FitStandard installs StandardFit
func FitStandard(ship *outfitting.Ship, c *catalog.Catalog) error {
	_, err := ship.Batch(func(b *outfitting.Batch) error {
		for _, k := range outfitting.StandardSlots() {
			if err := b.Install(outfitting.StandardRef(k), c.Standard(k, StandardFit[k])); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}
