package primary

import "context"

// ConveyorService defines the primary port for conveyor operations.
// All status changes go through the named transitions below.
type ConveyorService interface {
	// CreateConveyor adds a conveyor to a parking lot. The new conveyor is
	// Off, active, with no position and no last status.
	CreateConveyor(ctx context.Context, req CreateConveyorRequest) (*Conveyor, error)

	// GetConveyor retrieves a conveyor by ID, active or not.
	GetConveyor(ctx context.Context, conveyorID int64) (*Conveyor, error)

	// ListConveyors lists conveyors of a parking lot.
	ListConveyors(ctx context.Context, filters ConveyorFilters) ([]*Conveyor, error)

	// TurnOn moves an Off conveyor to Testing.
	TurnOn(ctx context.Context, conveyorID int64) error

	// Restart moves a Paused conveyor to Testing.
	Restart(ctx context.Context, conveyorID int64) error

	// TurnOff moves an Operational conveyor to Off.
	TurnOff(ctx context.Context, conveyorID int64) error

	// Pause is not available to callers; Paused is entered by hardware only.
	Pause(ctx context.Context, conveyorID int64) error

	// SetStatus is not available to callers; use the named transitions.
	SetStatus(ctx context.Context, conveyorID int64, status string) error

	// DecideWeightChange stages a new max weight for an Off conveyor.
	// Nothing is persisted until ConfirmWeightChange.
	DecideWeightChange(ctx context.Context, conveyorID int64, newWeightKg int) error

	// ConfirmWeightChange persists the staged max weight and clears it.
	ConfirmWeightChange(ctx context.Context, conveyorID int64) error

	// PendingWeight returns the staged max weight, if any.
	PendingWeight(conveyorID int64) (int, bool)

	// AttemptCount returns the in-process attempt counter of a conveyor.
	AttemptCount(conveyorID int64) int

	// MoveConveyor reassigns a conveyor to another parking lot and clears its position.
	MoveConveyor(ctx context.Context, conveyorID, newParkingLotID int64) error

	// DeactivateConveyor soft-deletes a conveyor.
	DeactivateConveyor(ctx context.Context, conveyorID int64) error

	// TurnOnAll turns on every eligible conveyor of a parking lot.
	// Per-unit failures are collected, not returned as an error.
	TurnOnAll(ctx context.Context, parkingLotID int64) (*TurnOnAllResult, error)
}

// CreateConveyorRequest contains parameters for creating a conveyor.
type CreateConveyorRequest struct {
	ParkingLotID int64
	MaxWeightKg  int
}

// ConveyorFilters contains filter options for listing conveyors.
type ConveyorFilters struct {
	ParkingLotID    int64
	IncludeInactive bool
}

// Conveyor represents a conveyor entity at the port boundary.
// Status lifecycle: Off → Testing → (Operational | Paused); Operational → Off; Paused → Testing
type Conveyor struct {
	ID           int64
	ParkingLotID int64
	Floor        *int
	X            *int
	Y            *int
	MaxWeightKg  int
	Status       string
	LastStatus   string // Empty when unset
	IsActive     bool
}

// TurnOnAllResult reports the outcome of a bulk turn-on.
type TurnOnAllResult struct {
	Count    int
	Failures []TurnOnFailure
}

// TurnOnFailure records a conveyor that was eligible but failed to turn on.
type TurnOnFailure struct {
	ConveyorID int64
	Err        error
}
