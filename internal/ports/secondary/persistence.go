// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// ConveyorRepository defines the secondary port for conveyor persistence.
// Every write affects active rows only; a write that matches no active row
// reports conveyor.ErrNotFound.
type ConveyorRepository interface {
	// Create persists a new conveyor and returns the store-assigned ID.
	// Floor, X and Y are always written as NULL.
	Create(ctx context.Context, conveyor *ConveyorRecord) (int64, error)

	// GetByID retrieves a conveyor by its ID, active or not.
	GetByID(ctx context.Context, id int64) (*ConveyorRecord, error)

	// List retrieves conveyors matching the given filters.
	List(ctx context.Context, filters ConveyorFilters) ([]*ConveyorRecord, error)

	// UpdateStatus moves an active conveyor from one status to another and
	// applies the last-status rule in the same statement. It fails with
	// ErrPrecondition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to string) error

	// UpdateMaxWeight writes a new max weight.
	UpdateMaxWeight(ctx context.Context, id int64, maxWeightKg int) error

	// Move reassigns a conveyor to another parking lot and clears its position.
	Move(ctx context.Context, id int64, parkingLotID int64) error

	// Deactivate soft-deletes a conveyor.
	Deactivate(ctx context.Context, id int64) error
}

// ConveyorRecord represents a conveyor row as stored in persistence.
type ConveyorRecord struct {
	ID           int64
	ParkingLotID int64
	Floor        *int // NULL until assigned by hardware
	X            *int
	Y            *int
	MaxWeightKg  int
	Status       string
	LastStatus   string // Empty when unset
	IsActive     bool
}

// ConveyorFilters contains filter options for listing conveyors.
type ConveyorFilters struct {
	ParkingLotID    int64
	IncludeInactive bool // Inactive rows sort after active ones
}

// ConveyorScratchStore holds per-conveyor state that lives only for the
// lifetime of the process: the staged max weight and the attempt counter.
// Implementations must be safe for concurrent use.
type ConveyorScratchStore interface {
	// PendingWeight returns the staged max weight for a conveyor, if any.
	PendingWeight(id int64) (int, bool)

	// SetPendingWeight stages a max weight, replacing any earlier value.
	SetPendingWeight(id int64, kg int)

	// ClearPendingWeight drops the staged max weight.
	ClearPendingWeight(id int64)

	// Attempts returns the attempt counter for a conveyor (0 if never seen).
	Attempts(id int64) int

	// ResetAttempts sets the attempt counter to 0.
	ResetAttempts(id int64)

	// EnsureAttempts sets the attempt counter to 0 only if it is not tracked yet.
	EnsureAttempts(id int64)

	// Forget drops all scratch state for a conveyor.
	Forget(id int64)
}
