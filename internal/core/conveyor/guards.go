package conveyor

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Kind    error  // Error kind (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	kind := r.Kind
	if kind == nil {
		kind = ErrPrecondition
	}
	return fmt.Errorf("%w: %s", kind, r.Reason)
}

func allowed() GuardResult {
	return GuardResult{Allowed: true}
}

func rejected(kind error, format string, args ...any) GuardResult {
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// CreateContext provides context for conveyor creation guards.
type CreateContext struct {
	ParkingLotID int64
	MaxWeightKg  int
}

// StateContext provides context for status transition guards.
// Populated by the caller from the persisted row plus in-process state.
type StateContext struct {
	ConveyorID       int64
	Status           Status
	IsActive         bool
	HasPendingWeight bool
}

// WeightChangeContext provides context for the pending weight-change guards.
type WeightChangeContext struct {
	ConveyorID       int64
	Status           Status
	IsActive         bool
	NewWeightKg      int // Only used when deciding
	HasPendingWeight bool
}

// MoveContext provides context for move guards.
type MoveContext struct {
	ConveyorID      int64
	IsActive        bool
	NewParkingLotID int64
}

// ValidateConveyorID rejects non-positive conveyor ids.
func ValidateConveyorID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: conveyor id must be positive (got %d)", ErrInvalidArgument, id)
	}
	return nil
}

// ValidateParkingLotID rejects non-positive parking lot ids.
func ValidateParkingLotID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: parking lot id must be positive (got %d)", ErrInvalidArgument, id)
	}
	return nil
}

// ValidateWeight rejects non-positive weight limits.
func ValidateWeight(kg int) error {
	if kg <= 0 {
		return fmt.Errorf("%w: max weight must be positive (got %d)", ErrInvalidArgument, kg)
	}
	return nil
}

// CanCreate evaluates whether a conveyor can be created.
// Rules:
// - Parking lot id must be positive
// - Max weight must be positive
func CanCreate(ctx CreateContext) GuardResult {
	if ctx.ParkingLotID <= 0 {
		return rejected(ErrInvalidArgument, "parking lot id must be positive (got %d)", ctx.ParkingLotID)
	}
	if ctx.MaxWeightKg <= 0 {
		return rejected(ErrInvalidArgument, "max weight must be positive (got %d)", ctx.MaxWeightKg)
	}
	return allowed()
}

// CanTurnOn evaluates whether a conveyor can be turned on.
// Rules:
// - Conveyor must be active
// - Status must be Off
// - No pending weight change may exist
func CanTurnOn(ctx StateContext) GuardResult {
	if !ctx.IsActive {
		return inactive(ctx.ConveyorID)
	}
	if _, ok := TransitionFor(ctx.Status, EventTurnOn); !ok {
		return rejected(ErrPrecondition, "turn on is allowed only from Off (current status: %s)", ctx.Status)
	}
	if ctx.HasPendingWeight {
		return rejected(ErrPrecondition, "cannot turn on conveyor %d while a max weight change is pending (confirm it first)", ctx.ConveyorID)
	}
	return allowed()
}

// CanRestart evaluates whether a conveyor can be restarted.
// Rules:
// - Conveyor must be active
// - Status must be Paused
func CanRestart(ctx StateContext) GuardResult {
	if !ctx.IsActive {
		return inactive(ctx.ConveyorID)
	}
	if _, ok := TransitionFor(ctx.Status, EventRestart); !ok {
		return rejected(ErrPrecondition, "restart is allowed only from Paused (current status: %s)", ctx.Status)
	}
	return allowed()
}

// CanTurnOff evaluates whether a conveyor can be turned off.
// Rules:
// - Conveyor must be active
// - Status must be Operational
func CanTurnOff(ctx StateContext) GuardResult {
	if !ctx.IsActive {
		return inactive(ctx.ConveyorID)
	}
	if _, ok := TransitionFor(ctx.Status, EventTurnOff); !ok {
		return rejected(ErrPrecondition, "turn off is allowed only from Operational (current status: %s)", ctx.Status)
	}
	return allowed()
}

// IsTurnOnAllEligible reports whether a conveyor is picked up by a bulk
// turn-on. It is the same rule as CanTurnOn.
func IsTurnOnAllEligible(ctx StateContext) bool {
	return CanTurnOn(ctx).Allowed
}

// CanDecideWeightChange evaluates whether a new max weight can be staged.
// Rules:
// - New weight must be positive
// - Conveyor must be active
// - Status must be Off
func CanDecideWeightChange(ctx WeightChangeContext) GuardResult {
	if ctx.NewWeightKg <= 0 {
		return rejected(ErrInvalidArgument, "max weight must be positive (got %d)", ctx.NewWeightKg)
	}
	if !ctx.IsActive {
		return inactive(ctx.ConveyorID)
	}
	if ctx.Status != StatusOff {
		return rejected(ErrPrecondition, "max weight change can be decided only when the conveyor is Off (current status: %s)", ctx.Status)
	}
	return allowed()
}

// CanConfirmWeightChange evaluates whether a staged max weight can be persisted.
// Rules:
// - Conveyor must be active
// - Status must be Off
// - A pending weight change must exist
func CanConfirmWeightChange(ctx WeightChangeContext) GuardResult {
	if !ctx.IsActive {
		return inactive(ctx.ConveyorID)
	}
	if ctx.Status != StatusOff {
		return rejected(ErrPrecondition, "max weight can be confirmed only when the conveyor is Off (current status: %s)", ctx.Status)
	}
	if !ctx.HasPendingWeight {
		return rejected(ErrPrecondition, "no pending max weight change for conveyor %d", ctx.ConveyorID)
	}
	return allowed()
}

// CanMove evaluates whether a conveyor can be moved to another parking lot.
// Rules:
// - New parking lot id must be positive
// - Conveyor must be active
func CanMove(ctx MoveContext) GuardResult {
	if ctx.NewParkingLotID <= 0 {
		return rejected(ErrInvalidArgument, "new parking lot id must be positive (got %d)", ctx.NewParkingLotID)
	}
	if !ctx.IsActive {
		return rejected(ErrPrecondition, "conveyor %d is inactive and cannot be moved", ctx.ConveyorID)
	}
	return allowed()
}

// CanDeactivate evaluates whether a conveyor can be soft-deleted.
// Rules:
// - Conveyor must still be active
func CanDeactivate(ctx StateContext) GuardResult {
	if !ctx.IsActive {
		return rejected(ErrPrecondition, "conveyor %d is already inactive", ctx.ConveyorID)
	}
	return allowed()
}

func inactive(id int64) GuardResult {
	return rejected(ErrPrecondition, "conveyor %d is inactive", id)
}
