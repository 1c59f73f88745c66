package app

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	coreconveyor "github.com/example/parkwise/internal/core/conveyor"
	"github.com/example/parkwise/internal/ports/primary"
	"github.com/example/parkwise/internal/ports/secondary"
)

const entityConveyor = "conveyor"

// ConveyorServiceImpl implements the ConveyorService interface.
// Every operation reads the persisted row, evaluates a pure guard, and only
// then writes. Pending weights and attempt counters live in the injected
// scratch store, never in the database.
type ConveyorServiceImpl struct {
	conveyorRepo secondary.ConveyorRepository
	scratch      secondary.ConveyorScratchStore
	logWriter    secondary.LogWriter
	logger       *zap.Logger
}

// NewConveyorService creates a new ConveyorService with injected dependencies.
// logWriter and logger may be nil.
func NewConveyorService(
	conveyorRepo secondary.ConveyorRepository,
	scratch secondary.ConveyorScratchStore,
	logWriter secondary.LogWriter,
	logger *zap.Logger,
) *ConveyorServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConveyorServiceImpl{
		conveyorRepo: conveyorRepo,
		scratch:      scratch,
		logWriter:    logWriter,
		logger:       logger.Named("conveyor"),
	}
}

// CreateConveyor adds a conveyor to a parking lot.
func (s *ConveyorServiceImpl) CreateConveyor(ctx context.Context, req primary.CreateConveyorRequest) (*primary.Conveyor, error) {
	guardCtx := coreconveyor.CreateContext{
		ParkingLotID: req.ParkingLotID,
		MaxWeightKg:  req.MaxWeightKg,
	}
	if result := coreconveyor.CanCreate(guardCtx); !result.Allowed {
		return nil, s.rejected("create", 0, result.Error())
	}

	newID, err := s.conveyorRepo.Create(ctx, &secondary.ConveyorRecord{
		ParkingLotID: req.ParkingLotID,
		MaxWeightKg:  req.MaxWeightKg,
		Status:       string(coreconveyor.InitialStatus()),
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conveyor: %w", err)
	}

	s.scratch.ResetAttempts(newID)
	s.scratch.ClearPendingWeight(newID)

	s.logger.Info("conveyor created",
		zap.Int64("conveyor_id", newID),
		zap.Int64("parking_lot_id", req.ParkingLotID),
		zap.Int("max_weight_kg", req.MaxWeightKg),
	)
	s.audit(ctx, func(w secondary.LogWriter) error {
		return w.LogCreate(ctx, entityConveyor, formatID(newID))
	})

	created, err := s.conveyorRepo.GetByID(ctx, newID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created conveyor: %w", err)
	}
	return recordToConveyor(created), nil
}

// GetConveyor retrieves a conveyor by ID, active or not.
func (s *ConveyorServiceImpl) GetConveyor(ctx context.Context, conveyorID int64) (*primary.Conveyor, error) {
	if err := coreconveyor.ValidateConveyorID(conveyorID); err != nil {
		return nil, err
	}
	record, err := s.conveyorRepo.GetByID(ctx, conveyorID)
	if err != nil {
		return nil, err
	}
	return recordToConveyor(record), nil
}

// ListConveyors lists conveyors of a parking lot. Conveyors seen for the
// first time get an attempt counter of 0.
func (s *ConveyorServiceImpl) ListConveyors(ctx context.Context, filters primary.ConveyorFilters) ([]*primary.Conveyor, error) {
	records, err := s.conveyorRepo.List(ctx, secondary.ConveyorFilters{
		ParkingLotID:    filters.ParkingLotID,
		IncludeInactive: filters.IncludeInactive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conveyors: %w", err)
	}

	conveyors := make([]*primary.Conveyor, len(records))
	for i, r := range records {
		s.scratch.EnsureAttempts(r.ID)
		conveyors[i] = recordToConveyor(r)
	}
	return conveyors, nil
}

// TurnOn moves an Off conveyor to Testing and resets its attempt counter.
func (s *ConveyorServiceImpl) TurnOn(ctx context.Context, conveyorID int64) error {
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	if result := coreconveyor.CanTurnOn(s.stateContext(record)); !result.Allowed {
		return s.rejected("turn_on", conveyorID, result.Error())
	}

	return s.transition(ctx, record, coreconveyor.EventTurnOn)
}

// Restart moves a Paused conveyor to Testing and resets its attempt counter.
func (s *ConveyorServiceImpl) Restart(ctx context.Context, conveyorID int64) error {
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	if result := coreconveyor.CanRestart(s.stateContext(record)); !result.Allowed {
		return s.rejected("restart", conveyorID, result.Error())
	}

	return s.transition(ctx, record, coreconveyor.EventRestart)
}

// TurnOff moves an Operational conveyor to Off.
func (s *ConveyorServiceImpl) TurnOff(ctx context.Context, conveyorID int64) error {
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	if result := coreconveyor.CanTurnOff(s.stateContext(record)); !result.Allowed {
		return s.rejected("turn_off", conveyorID, result.Error())
	}

	return s.transition(ctx, record, coreconveyor.EventTurnOff)
}

// Pause always fails: Paused is entered by hardware events only.
func (s *ConveyorServiceImpl) Pause(ctx context.Context, conveyorID int64) error {
	return fmt.Errorf("%w: pause is not allowed manually; Paused is entered by hardware events only", coreconveyor.ErrUnsupported)
}

// SetStatus always fails: status changes go through the named transitions.
func (s *ConveyorServiceImpl) SetStatus(ctx context.Context, conveyorID int64, status string) error {
	return fmt.Errorf("%w: direct status update is not allowed; use turn on, restart or turn off", coreconveyor.ErrUnsupported)
}

// DecideWeightChange stages a new max weight. The store is not touched.
func (s *ConveyorServiceImpl) DecideWeightChange(ctx context.Context, conveyorID int64, newWeightKg int) error {
	if err := coreconveyor.ValidateWeight(newWeightKg); err != nil {
		return err
	}
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	_, hasPending := s.scratch.PendingWeight(conveyorID)
	guardCtx := coreconveyor.WeightChangeContext{
		ConveyorID:       conveyorID,
		Status:           coreconveyor.Status(record.Status),
		IsActive:         record.IsActive,
		NewWeightKg:      newWeightKg,
		HasPendingWeight: hasPending,
	}
	if result := coreconveyor.CanDecideWeightChange(guardCtx); !result.Allowed {
		return s.rejected("decide_weight", conveyorID, result.Error())
	}

	s.scratch.SetPendingWeight(conveyorID, newWeightKg)
	s.logger.Info("max weight change staged",
		zap.Int64("conveyor_id", conveyorID),
		zap.Int("current_kg", record.MaxWeightKg),
		zap.Int("pending_kg", newWeightKg),
	)
	return nil
}

// ConfirmWeightChange persists the staged max weight and clears it.
func (s *ConveyorServiceImpl) ConfirmWeightChange(ctx context.Context, conveyorID int64) error {
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	pending, hasPending := s.scratch.PendingWeight(conveyorID)
	guardCtx := coreconveyor.WeightChangeContext{
		ConveyorID:       conveyorID,
		Status:           coreconveyor.Status(record.Status),
		IsActive:         record.IsActive,
		HasPendingWeight: hasPending,
	}
	if result := coreconveyor.CanConfirmWeightChange(guardCtx); !result.Allowed {
		return s.rejected("confirm_weight", conveyorID, result.Error())
	}

	if err := s.conveyorRepo.UpdateMaxWeight(ctx, conveyorID, pending); err != nil {
		return fmt.Errorf("failed to confirm max weight: %w", err)
	}
	s.scratch.ClearPendingWeight(conveyorID)

	s.logger.Info("max weight change confirmed",
		zap.Int64("conveyor_id", conveyorID),
		zap.Int("old_kg", record.MaxWeightKg),
		zap.Int("new_kg", pending),
	)
	s.audit(ctx, func(w secondary.LogWriter) error {
		return w.LogUpdate(ctx, entityConveyor, formatID(conveyorID), "max_weight",
			strconv.Itoa(record.MaxWeightKg), strconv.Itoa(pending))
	})
	return nil
}

// PendingWeight returns the staged max weight, if any.
func (s *ConveyorServiceImpl) PendingWeight(conveyorID int64) (int, bool) {
	return s.scratch.PendingWeight(conveyorID)
}

// AttemptCount returns the in-process attempt counter of a conveyor.
func (s *ConveyorServiceImpl) AttemptCount(conveyorID int64) int {
	return s.scratch.Attempts(conveyorID)
}

// MoveConveyor reassigns a conveyor to another parking lot. Floor, X and Y
// are cleared; hardware assigns them again in the new lot.
func (s *ConveyorServiceImpl) MoveConveyor(ctx context.Context, conveyorID, newParkingLotID int64) error {
	if err := coreconveyor.ValidateParkingLotID(newParkingLotID); err != nil {
		return err
	}
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	guardCtx := coreconveyor.MoveContext{
		ConveyorID:      conveyorID,
		IsActive:        record.IsActive,
		NewParkingLotID: newParkingLotID,
	}
	if result := coreconveyor.CanMove(guardCtx); !result.Allowed {
		return s.rejected("move", conveyorID, result.Error())
	}

	if err := s.conveyorRepo.Move(ctx, conveyorID, newParkingLotID); err != nil {
		return fmt.Errorf("failed to move conveyor: %w", err)
	}

	s.logger.Info("conveyor moved",
		zap.Int64("conveyor_id", conveyorID),
		zap.Int64("from_lot", record.ParkingLotID),
		zap.Int64("to_lot", newParkingLotID),
	)
	s.audit(ctx, func(w secondary.LogWriter) error {
		return w.LogUpdate(ctx, entityConveyor, formatID(conveyorID), "parking_lot_id",
			formatID(record.ParkingLotID), formatID(newParkingLotID))
	})
	return nil
}

// DeactivateConveyor soft-deletes a conveyor and drops its scratch state.
func (s *ConveyorServiceImpl) DeactivateConveyor(ctx context.Context, conveyorID int64) error {
	record, err := s.load(ctx, conveyorID)
	if err != nil {
		return err
	}

	if result := coreconveyor.CanDeactivate(s.stateContext(record)); !result.Allowed {
		return s.rejected("deactivate", conveyorID, result.Error())
	}

	if err := s.conveyorRepo.Deactivate(ctx, conveyorID); err != nil {
		return fmt.Errorf("failed to deactivate conveyor: %w", err)
	}
	s.scratch.Forget(conveyorID)

	s.logger.Info("conveyor deactivated", zap.Int64("conveyor_id", conveyorID))
	s.audit(ctx, func(w secondary.LogWriter) error {
		return w.LogDelete(ctx, entityConveyor, formatID(conveyorID))
	})
	return nil
}

// TurnOnAll turns on every active, Off conveyor of a parking lot that has no
// pending weight change. A failure on one unit is recorded and the batch
// continues.
func (s *ConveyorServiceImpl) TurnOnAll(ctx context.Context, parkingLotID int64) (*primary.TurnOnAllResult, error) {
	if err := coreconveyor.ValidateParkingLotID(parkingLotID); err != nil {
		return nil, err
	}

	records, err := s.conveyorRepo.List(ctx, secondary.ConveyorFilters{ParkingLotID: parkingLotID})
	if err != nil {
		return nil, fmt.Errorf("failed to list conveyors: %w", err)
	}

	result := &primary.TurnOnAllResult{}
	for _, record := range records {
		if !coreconveyor.IsTurnOnAllEligible(s.stateContext(record)) {
			continue
		}
		if err := s.transition(ctx, record, coreconveyor.EventTurnOn); err != nil {
			s.logger.Warn("bulk turn on skipped conveyor",
				zap.Int64("conveyor_id", record.ID),
				zap.Int64("parking_lot_id", parkingLotID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, primary.TurnOnFailure{ConveyorID: record.ID, Err: err})
			continue
		}
		result.Count++
	}

	s.logger.Info("bulk turn on finished",
		zap.Int64("parking_lot_id", parkingLotID),
		zap.Int("turned_on", result.Count),
		zap.Int("failed", len(result.Failures)),
	)
	return result, nil
}

// load validates the id and reads the current row.
func (s *ConveyorServiceImpl) load(ctx context.Context, conveyorID int64) (*secondary.ConveyorRecord, error) {
	if err := coreconveyor.ValidateConveyorID(conveyorID); err != nil {
		return nil, err
	}
	return s.conveyorRepo.GetByID(ctx, conveyorID)
}

func (s *ConveyorServiceImpl) stateContext(record *secondary.ConveyorRecord) coreconveyor.StateContext {
	_, hasPending := s.scratch.PendingWeight(record.ID)
	return coreconveyor.StateContext{
		ConveyorID:       record.ID,
		Status:           coreconveyor.Status(record.Status),
		IsActive:         record.IsActive,
		HasPendingWeight: hasPending,
	}
}

// transition persists the target status of ev. Transitions into Testing
// reset the attempt counter.
func (s *ConveyorServiceImpl) transition(ctx context.Context, record *secondary.ConveyorRecord, ev coreconveyor.Event) error {
	from := coreconveyor.Status(record.Status)
	tr, ok := coreconveyor.TransitionFor(from, ev)
	if !ok {
		return fmt.Errorf("%w: no %s transition from %s", coreconveyor.ErrPrecondition, ev, from)
	}

	if err := s.conveyorRepo.UpdateStatus(ctx, record.ID, string(from), string(tr.To)); err != nil {
		return fmt.Errorf("failed to update conveyor status: %w", err)
	}
	if tr.To == coreconveyor.StatusTesting {
		s.scratch.ResetAttempts(record.ID)
	}

	s.logger.Info("conveyor transition",
		zap.Int64("conveyor_id", record.ID),
		zap.String("event", string(ev)),
		zap.String("from", string(from)),
		zap.String("to", string(tr.To)),
	)
	s.audit(ctx, func(w secondary.LogWriter) error {
		return w.LogUpdate(ctx, entityConveyor, formatID(record.ID), "status", string(from), string(tr.To))
	})
	return nil
}

func (s *ConveyorServiceImpl) rejected(op string, conveyorID int64, err error) error {
	s.logger.Debug("conveyor operation rejected",
		zap.String("op", op),
		zap.Int64("conveyor_id", conveyorID),
		zap.Error(err),
	)
	return err
}

// audit writes an audit entry. Audit failures never fail the operation.
func (s *ConveyorServiceImpl) audit(ctx context.Context, write func(secondary.LogWriter) error) {
	if s.logWriter == nil {
		return
	}
	if err := write(s.logWriter); err != nil {
		s.logger.Warn("failed to write audit entry", zap.Error(err))
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Helper methods

func recordToConveyor(r *secondary.ConveyorRecord) *primary.Conveyor {
	return &primary.Conveyor{
		ID:           r.ID,
		ParkingLotID: r.ParkingLotID,
		Floor:        r.Floor,
		X:            r.X,
		Y:            r.Y,
		MaxWeightKg:  r.MaxWeightKg,
		Status:       r.Status,
		LastStatus:   r.LastStatus,
		IsActive:     r.IsActive,
	}
}

// Ensure ConveyorServiceImpl implements the interface
var _ primary.ConveyorService = (*ConveyorServiceImpl)(nil)
