package config

// PricingConfig holds the cost multipliers applied to every ship the CLI builds.
// 0.85 is a 15% discount.
type PricingConfig struct {
	ShipMultiplier   float64 `mapstructure:"ship_multiplier" validate:"gt=0"`
	ModuleMultiplier float64 `mapstructure:"module_multiplier" validate:"gt=0"`
}
