package outfitting

import (
	"strings"
	"time"

	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// SavedBuild is a named build code kept for later. The figures are captured when the
// build is saved so listings do not need to decode every code.
type SavedBuild struct {
	id          string
	name        string
	shipID      string
	code        string
	totalCost   int64
	unladenMass float64
	createdAt   time.Time
}

// NewSavedBuild captures the ship's current build code and figures under name
func NewSavedBuild(id, name string, ship *Ship, clock shared.Clock) (*SavedBuild, error) {
	if ship == nil {
		return nil, shared.NewValidationError("ship", "cannot be nil")
	}
	code, err := ship.BuildCode()
	if err != nil {
		return nil, err
	}
	stats := ship.Stats()
	return ReconstructSavedBuild(id, name, ship.ID(), code, stats.TotalCost, stats.UnladenMass, clock.Now())
}

// ReconstructSavedBuild rebuilds a saved build from persisted fields
func ReconstructSavedBuild(
	id string,
	name string,
	shipID string,
	code string,
	totalCost int64,
	unladenMass float64,
	createdAt time.Time,
) (*SavedBuild, error) {
	b := &SavedBuild{
		id:          id,
		name:        strings.TrimSpace(name),
		shipID:      shipID,
		code:        code,
		totalCost:   totalCost,
		unladenMass: unladenMass,
		createdAt:   createdAt,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *SavedBuild) validate() error {
	if b.id == "" {
		return shared.NewValidationError("id", "cannot be empty")
	}
	if b.name == "" {
		return shared.NewValidationError("name", "cannot be empty")
	}
	if b.shipID == "" {
		return shared.NewValidationError("ship_id", "cannot be empty")
	}
	if b.code == "" {
		return shared.NewValidationError("code", "cannot be empty")
	}
	return nil
}

func (b *SavedBuild) ID() string           { return b.id }
func (b *SavedBuild) Name() string         { return b.name }
func (b *SavedBuild) ShipID() string       { return b.shipID }
func (b *SavedBuild) Code() string         { return b.code }
func (b *SavedBuild) TotalCost() int64     { return b.totalCost }
func (b *SavedBuild) UnladenMass() float64 { return b.unladenMass }
func (b *SavedBuild) CreatedAt() time.Time { return b.createdAt }

// Rename changes the display name
func (b *SavedBuild) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "cannot be empty")
	}
	b.name = name
	return nil
}
