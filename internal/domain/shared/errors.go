package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Ship-related errors

type ShipError struct {
	*DomainError
}

func NewShipError(message string) *ShipError {
	return &ShipError{DomainError: &DomainError{Message: message}}
}

type InvalidShipDataError struct {
	*ShipError
}

func NewInvalidShipDataError(message string) *InvalidShipDataError {
	return &InvalidShipDataError{ShipError: NewShipError(message)}
}

// ShipNotFoundError is returned when the catalog has no ship type with the id
type ShipNotFoundError struct {
	*ShipError
	ShipID string
}

func NewShipNotFoundError(shipID string) *ShipNotFoundError {
	return &ShipNotFoundError{
		ShipError: NewShipError(fmt.Sprintf("ship type not found: %s", shipID)),
		ShipID:    shipID,
	}
}

// InvalidSlotError is returned when a slot reference does not address a slot of the ship
type InvalidSlotError struct {
	*ShipError
	Slot string
}

func NewInvalidSlotError(slot string, reason string) *InvalidSlotError {
	return &InvalidSlotError{
		ShipError: NewShipError(fmt.Sprintf("invalid slot %s: %s", slot, reason)),
		Slot:      slot,
	}
}

// ModuleNotAllowedError is returned when a module does not fit the slot it is installed into
type ModuleNotAllowedError struct {
	*ShipError
	Slot     string
	ModuleID string
}

func NewModuleNotAllowedError(slot, moduleID, reason string) *ModuleNotAllowedError {
	return &ModuleNotAllowedError{
		ShipError: NewShipError(fmt.Sprintf("module %s not allowed in slot %s: %s", moduleID, slot, reason)),
		Slot:      slot,
		ModuleID:  moduleID,
	}
}

type PriorityOutOfRangeError struct {
	*ShipError
	Priority  int
	BandCount int
}

func NewPriorityOutOfRangeError(priority, bandCount int) *PriorityOutOfRangeError {
	return &PriorityOutOfRangeError{
		ShipError: NewShipError(fmt.Sprintf("priority %d out of range [0, %d)", priority, bandCount)),
		Priority:  priority,
		BandCount: bandCount,
	}
}

type InvalidBulkheadError struct {
	*ShipError
	Index int
}

func NewInvalidBulkheadError(shipID string, index int) *InvalidBulkheadError {
	return &InvalidBulkheadError{
		ShipError: NewShipError(fmt.Sprintf("no bulkhead %d for ship %s", index, shipID)),
		Index:     index,
	}
}

// Build code errors

// InvalidBuildCodeError reports a malformed build code. Segment names the part of the
// code that failed ("main", "enabled" or "priorities") and Position the character offset
// inside that segment.
type InvalidBuildCodeError struct {
	*DomainError
	Segment  string
	Position int
	Reason   string
}

func NewInvalidBuildCodeError(segment string, position int, reason string) *InvalidBuildCodeError {
	return &InvalidBuildCodeError{
		DomainError: &DomainError{
			Message: fmt.Sprintf("invalid build code: %s segment at %d: %s", segment, position, reason),
		},
		Segment:  segment,
		Position: position,
		Reason:   reason,
	}
}

// Configuration search errors

// InfeasibleConfigurationError lists the standard slots for which no catalog module met
// the hard constraint of the lightest configuration search.
type InfeasibleConfigurationError struct {
	*DomainError
	Slots []string
}

func NewInfeasibleConfigurationError(slots []string) *InfeasibleConfigurationError {
	return &InfeasibleConfigurationError{
		DomainError: &DomainError{Message: fmt.Sprintf("no feasible module for %v", slots)},
		Slots:       slots,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Saved build errors

type BuildNotFoundError struct {
	*DomainError
	BuildID string
}

func NewBuildNotFoundError(buildID string) *BuildNotFoundError {
	return &BuildNotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("saved build not found: %s", buildID)},
		BuildID:     buildID,
	}
}
