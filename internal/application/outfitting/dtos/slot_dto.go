package dtos

import (
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
)

// SlotDTO is one row of a fitted ship's slot table, flattened for display
type SlotDTO struct {
	Slot     string // power_plant, hardpoint[0], internal[3], ...
	MaxClass int
	Token    string // build code token, empty for an empty slot
	Module   string // display name
	Mass     float64
	Power    float64
	Cost     int64 // discounted cost
	Enabled  bool
	Priority int    // 1-based, 0 for slots without a power state
	Status   string // online, offline, disabled or empty when unpowered
}

// SlotsToDTO lists every slot of the ship in build code order. Status is reported
// for hardpoints deployed when deployed is set.
func SlotsToDTO(ship *outfitting.Ship, deployed bool) []SlotDTO {
	var slots []*outfitting.Slot
	for _, k := range outfitting.StandardSlots() {
		slots = append(slots, ship.Standard(k))
	}
	slots = append(slots, ship.Hardpoints()...)
	slots = append(slots, ship.Internal()...)
	if hatch, err := ship.Slot(outfitting.CargoHatchRef); err == nil {
		slots = append(slots, hatch)
	}

	rows := make([]SlotDTO, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, slotToDTO(ship, slot, deployed))
	}
	return rows
}

func slotToDTO(ship *outfitting.Ship, slot *outfitting.Slot, deployed bool) SlotDTO {
	row := SlotDTO{
		Slot:     slot.Ref().String(),
		MaxClass: slot.MaxClass(),
		Enabled:  slot.Enabled(),
		Cost:     slot.DiscountedCost(),
	}
	if m := slot.Module(); m != nil {
		row.Token = m.Token()
		row.Module = m.String()
		row.Mass = m.Mass
		row.Power = m.Power
	}
	// every powered module has a state once hardpoints are deployed
	if status, err := ship.SlotStatus(slot.Ref(), true); err == nil && status != outfitting.PowerStatusNone {
		row.Priority = slot.Priority() + 1
	}
	if status, err := ship.SlotStatus(slot.Ref(), deployed); err == nil {
		row.Status = status.String()
	}
	return row
}

// ShipDTO summarises a ship type from the catalog
type ShipDTO struct {
	ID           string
	Name         string
	Manufacturer string
	HullMass     float64
	HullCost     int64
	Hardpoints   int
	Internal     int
}

// ShipDefinitionToDTO converts a catalog ship definition for display
func ShipDefinitionToDTO(def *outfitting.ShipDefinition) ShipDTO {
	return ShipDTO{
		ID:           def.ID,
		Name:         def.Properties.Name,
		Manufacturer: def.Properties.Manufacturer,
		HullMass:     def.Properties.HullMass,
		HullCost:     def.Properties.HullCost,
		Hardpoints:   len(def.Slots.Hardpoints),
		Internal:     len(def.Slots.Internal),
	}
}
