// Package conveyor contains the pure business logic for conveyor operations.
// This is part of the Functional Core - no I/O, only pure functions.
package conveyor

import "strings"

// Status represents the operational state of a conveyor.
type Status string

const (
	StatusOff         Status = "Off"
	StatusTesting     Status = "Testing"
	StatusOperational Status = "Operational"
	StatusPaused      Status = "Paused"
)

// LastStatus records the most recent active state of a conveyor.
// The zero value means unset.
type LastStatus string

const (
	LastStatusUnset       LastStatus = ""
	LastStatusTesting     LastStatus = "Testing"
	LastStatusOperational LastStatus = "Operational"
)

// Event names an operator action that moves a conveyor between states.
type Event string

const (
	EventTurnOn  Event = "turn_on"
	EventRestart Event = "restart"
	EventTurnOff Event = "turn_off"
)

// Transition is a single allowed edge in the conveyor state machine.
type Transition struct {
	From  Status
	Event Event
	To    Status
}

// Paused has no inbound edge here: it is entered by hardware events only.
var transitionsTable = []Transition{
	{From: StatusOff, Event: EventTurnOn, To: StatusTesting},
	{From: StatusPaused, Event: EventRestart, To: StatusTesting},
	{From: StatusOperational, Event: EventTurnOff, To: StatusOff},
}

// TransitionFor returns the allowed transition for a given state and event.
func TransitionFor(from Status, ev Event) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}

// InitialStatus returns the status of a newly created conveyor.
func InitialStatus() Status {
	return StatusOff
}

// NextLastStatus applies the last-status rule for a status write.
// LastStatus takes the prior status only when the prior status was active
// (Testing or Operational) and the new status is neither Off nor Paused.
// Otherwise the current value is kept.
func NextLastStatus(prior Status, next Status, current LastStatus) LastStatus {
	if !prior.IsActiveState() {
		return current
	}
	if next == StatusOff || next == StatusPaused {
		return current
	}
	return LastStatus(prior)
}

// IsActiveState reports whether s is one of the states recorded as last status.
func (s Status) IsActiveState() bool {
	return s == StatusTesting || s == StatusOperational
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOff, StatusTesting, StatusOperational, StatusPaused:
		return true
	}
	return false
}

// ParseStatus parses stored status text. Blank or unknown text reads as Off.
func ParseStatus(s string) Status {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return StatusOff
	}
	return st
}

// ParseLastStatus parses stored last-status text. Anything but an active
// state reads as unset.
func ParseLastStatus(s string) LastStatus {
	switch LastStatus(strings.TrimSpace(s)) {
	case LastStatusTesting:
		return LastStatusTesting
	case LastStatusOperational:
		return LastStatusOperational
	}
	return LastStatusUnset
}

// IsSet reports whether a last status has been recorded.
func (l LastStatus) IsSet() bool {
	return l != LastStatusUnset
}
