package outfitting

import "math"

// Thruster curve constants shared by every thruster
const (
	thrusterM = 0.18
	thrusterP = 1.0
)

// Shield strength curve exponents below and above the generator's optimal mass
const (
	shieldLowExponent  = 0.87
	shieldHighExponent = 2.425
)

// Speeds holds the top speed at each pip setting plus the boost speed
type Speeds struct {
	ZeroPips float64
	TwoPips  float64
	FourPips float64
	Boost    float64
}

// JumpRange returns the range in light years of a single jump of a ship of the given
// mass, burning at most fsd.MaxFuel tonnes of the fuel available. A nil or
// uncalibrated drive jumps 0.
func JumpRange(mass float64, fsd *Module, fuel float64) float64 {
	if !fsdUsable(fsd) || mass <= 0 || fuel <= 0 {
		return 0
	}
	return singleJump(mass, fsd, math.Min(fuel, fsd.MaxFuel))
}

// TotalRange returns the distance covered by jumping until the tank is dry. The
// partial jump on leftover fuel is taken first, then each full jump with the ship
// heavier by the fuel still to burn.
func TotalRange(mass float64, fsd *Module, fuel float64) float64 {
	if !fsdUsable(fsd) || mass <= 0 || fuel <= 0 {
		return 0
	}

	remaining := math.Mod(fuel, fsd.MaxFuel)
	jumps := int(math.Floor(fuel / fsd.MaxFuel))

	mass += remaining
	total := 0.0
	if remaining > 0 {
		total = singleJump(mass, fsd, remaining)
	}
	for j := 0; j < jumps; j++ {
		mass += fsd.MaxFuel
		total += singleJump(mass, fsd, fsd.MaxFuel)
	}
	return total
}

func singleJump(mass float64, fsd *Module, fuel float64) float64 {
	return math.Pow(fuel/fsd.FuelMul, 1/fsd.FuelPower) * fsd.OptMass / mass
}

func fsdUsable(fsd *Module) bool {
	return fsd != nil && fsd.MaxFuel > 0 && fsd.FuelMul > 0 && fsd.FuelPower > 0
}

// MaxJumpCount is the number of jumps, full or partial, a tank of fuel allows
func MaxJumpCount(fuel float64, fsd *Module) int {
	if !fsdUsable(fsd) {
		return 0
	}
	return int(math.Ceil(fuel / fsd.MaxFuel))
}

// ShipSpeeds returns the speeds of a ship of the given mass. Ships heavier than the
// thrusters' maximum mass do not move, nor do ships without thrusters.
func ShipSpeeds(mass, baseSpeed, baseBoost float64, thrusters *Module, pipSpeed float64) Speeds {
	if thrusters == nil || thrusters.OptMass <= 0 || mass > thrusters.MaxMass {
		return Speeds{}
	}

	multiplier := (1 - thrusterM) + thrusterM*math.Pow(3-2*math.Max(0.5, mass/thrusters.OptMass), thrusterP)
	speed := baseSpeed * multiplier
	return Speeds{
		ZeroPips: speed * (1 - pipSpeed*4),
		TwoPips:  speed * (1 - pipSpeed*2),
		FourPips: speed,
		Boost:    baseBoost * multiplier,
	}
}

// ShieldStrength returns the shield strength a generator gives a hull of the given
// mass, scaled by the booster multiplier.
func ShieldStrength(hullMass, baseShield float64, sg *Module, multiplier float64) float64 {
	if sg == nil {
		return 0
	}
	scale := baseShield * multiplier

	switch {
	case hullMass < sg.MinMass:
		return scale * sg.MinMul
	case hullMass > sg.MaxMass:
		return scale * sg.MaxMul
	case hullMass < sg.OptMass:
		opt := (sg.OptMass - hullMass) / (sg.OptMass - sg.MinMass)
		opt = 1 - math.Pow(1-opt, shieldLowExponent)
		return scale * (opt*sg.MinMul + (1-opt)*sg.OptMul)
	default:
		span := sg.MaxMass - sg.OptMass
		if span <= 0 {
			return scale * sg.OptMul
		}
		over := (hullMass - sg.OptMass) / span
		w := 1 - math.Pow(1-over, shieldHighExponent)
		return scale * ((1-w)*sg.OptMul + w*sg.MaxMul)
	}
}
