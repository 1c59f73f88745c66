// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/example/parkwise/internal/ports/primary"
)

// ConveyorAdapter is a thin adapter that translates CLI operations to ConveyorService calls.
// It depends only on the ConveyorService interface, enabling easy testing with mocks.
type ConveyorAdapter struct {
	service primary.ConveyorService
	out     io.Writer
}

// NewConveyorAdapter creates a new ConveyorAdapter with the given service.
func NewConveyorAdapter(service primary.ConveyorService, out io.Writer) *ConveyorAdapter {
	return &ConveyorAdapter{
		service: service,
		out:     out,
	}
}

// Add creates a new conveyor in a parking lot.
func (a *ConveyorAdapter) Add(ctx context.Context, parkingLotID int64, maxWeightKg int) error {
	c, err := a.service.CreateConveyor(ctx, primary.CreateConveyorRequest{
		ParkingLotID: parkingLotID,
		MaxWeightKg:  maxWeightKg,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created conveyor %d in parking lot %d (max %d kg, %s)\n",
		c.ID, c.ParkingLotID, c.MaxWeightKg, StatusLabel(c.Status))
	return nil
}

// List lists the conveyors of a parking lot.
func (a *ConveyorAdapter) List(ctx context.Context, parkingLotID int64, includeInactive bool) error {
	conveyors, err := a.service.ListConveyors(ctx, primary.ConveyorFilters{
		ParkingLotID:    parkingLotID,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return err
	}

	if len(conveyors) == 0 {
		fmt.Fprintf(a.out, "No conveyors found in parking lot %d\n", parkingLotID)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-6s %-14s %-12s %-14s %-10s %s\n", "ID", "LOT", "POSITION", "MAX KG", "STATUS", "LAST", "PENDING")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, c := range conveyors {
		pending := "-"
		if kg, ok := a.service.PendingWeight(c.ID); ok {
			pending = strconv.Itoa(kg)
		}
		status := c.Status
		if !c.IsActive {
			status += " (inactive)"
		}
		// Pad before colouring so escape codes do not break alignment.
		fmt.Fprintf(a.out, "%-6d %-6d %-14s %-12d %s %-10s %s\n",
			c.ID, c.ParkingLotID, Position(c), c.MaxWeightKg,
			statusColor(c.Status, c.IsActive).Sprintf("%-14s", status),
			orDash(c.LastStatus), pending)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single conveyor.
func (a *ConveyorAdapter) Show(ctx context.Context, conveyorID int64) (*primary.Conveyor, error) {
	c, err := a.service.GetConveyor(ctx, conveyorID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nConveyor:    %d\n", c.ID)
	fmt.Fprintf(a.out, "Parking lot: %d\n", c.ParkingLotID)
	fmt.Fprintf(a.out, "Position:    %s\n", Position(c))
	fmt.Fprintf(a.out, "Max weight:  %d kg\n", c.MaxWeightKg)
	if kg, ok := a.service.PendingWeight(c.ID); ok {
		fmt.Fprintf(a.out, "Pending:     %d kg (not confirmed)\n", kg)
	}
	fmt.Fprintf(a.out, "Status:      %s\n", StatusLabel(c.Status))
	fmt.Fprintf(a.out, "Last status: %s\n", orDash(c.LastStatus))
	fmt.Fprintf(a.out, "Attempts:    %d\n", a.service.AttemptCount(c.ID))
	if !c.IsActive {
		fmt.Fprintf(a.out, "Active:      %s\n", color.New(color.FgRed).Sprint("no"))
	}
	fmt.Fprintln(a.out)

	return c, nil
}

// TurnOn turns on an Off conveyor.
func (a *ConveyorAdapter) TurnOn(ctx context.Context, conveyorID int64) error {
	if err := a.service.TurnOn(ctx, conveyorID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Conveyor %d turned on (%s)\n", conveyorID, StatusLabel("Testing"))
	return nil
}

// Restart restarts a Paused conveyor.
func (a *ConveyorAdapter) Restart(ctx context.Context, conveyorID int64) error {
	if err := a.service.Restart(ctx, conveyorID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Conveyor %d restarted (%s)\n", conveyorID, StatusLabel("Testing"))
	return nil
}

// TurnOff turns off an Operational conveyor.
func (a *ConveyorAdapter) TurnOff(ctx context.Context, conveyorID int64) error {
	if err := a.service.TurnOff(ctx, conveyorID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Conveyor %d turned off\n", conveyorID)
	return nil
}

// Pause forwards a manual pause request; the service always refuses it.
func (a *ConveyorAdapter) Pause(ctx context.Context, conveyorID int64) error {
	return a.service.Pause(ctx, conveyorID)
}

// SetStatus forwards a direct status request; the service always refuses it.
func (a *ConveyorAdapter) SetStatus(ctx context.Context, conveyorID int64, status string) error {
	return a.service.SetStatus(ctx, conveyorID, status)
}

// DecideWeight stages a new max weight.
func (a *ConveyorAdapter) DecideWeight(ctx context.Context, conveyorID int64, newWeightKg int) error {
	if err := a.service.DecideWeightChange(ctx, conveyorID, newWeightKg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Max weight %d kg staged for conveyor %d (confirm to apply)\n", newWeightKg, conveyorID)
	return nil
}

// ConfirmWeight persists the staged max weight.
func (a *ConveyorAdapter) ConfirmWeight(ctx context.Context, conveyorID int64) error {
	kg, _ := a.service.PendingWeight(conveyorID)
	if err := a.service.ConfirmWeightChange(ctx, conveyorID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Conveyor %d max weight set to %d kg\n", conveyorID, kg)
	return nil
}

// ShowPending prints the staged max weight, if any.
func (a *ConveyorAdapter) ShowPending(conveyorID int64) {
	if kg, ok := a.service.PendingWeight(conveyorID); ok {
		fmt.Fprintf(a.out, "Conveyor %d: %d kg pending\n", conveyorID, kg)
		return
	}
	fmt.Fprintf(a.out, "Conveyor %d: no pending max weight change\n", conveyorID)
}

// Move reassigns a conveyor to another parking lot.
func (a *ConveyorAdapter) Move(ctx context.Context, conveyorID, newParkingLotID int64) error {
	if err := a.service.MoveConveyor(ctx, conveyorID, newParkingLotID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Conveyor %d moved to parking lot %d (position cleared)\n", conveyorID, newParkingLotID)
	return nil
}

// Deactivate soft-deletes a conveyor.
func (a *ConveyorAdapter) Deactivate(ctx context.Context, conveyorID int64) error {
	if err := a.service.DeactivateConveyor(ctx, conveyorID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Conveyor %d deactivated\n", conveyorID)
	return nil
}

// TurnOnAll turns on every eligible conveyor of a parking lot.
func (a *ConveyorAdapter) TurnOnAll(ctx context.Context, parkingLotID int64) error {
	result, err := a.service.TurnOnAll(ctx, parkingLotID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Turned on %d conveyor(s) in parking lot %d\n", result.Count, parkingLotID)
	for _, f := range result.Failures {
		fmt.Fprintf(a.out, "  %s conveyor %d: %v\n", color.New(color.FgYellow).Sprint("!"), f.ConveyorID, f.Err)
	}
	return nil
}

// StatusLabel returns the status text coloured for display.
func StatusLabel(status string) string {
	return statusColor(status, true).Sprint(status)
}

// Position renders Floor/X/Y, or "unplaced" when hardware has not set them.
func Position(c *primary.Conveyor) string {
	if c.Floor == nil && c.X == nil && c.Y == nil {
		return "unplaced"
	}
	return fmt.Sprintf("F%s (%s,%s)", intOrQ(c.Floor), intOrQ(c.X), intOrQ(c.Y))
}

func statusColor(status string, active bool) *color.Color {
	if !active {
		return color.New(color.FgHiBlack)
	}
	switch status {
	case "Operational":
		return color.New(color.FgGreen)
	case "Testing":
		return color.New(color.FgCyan)
	case "Paused":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

func intOrQ(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
