package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates a fresh store with demo conveyors across two
// parking lots, covering every status. Position is left NULL except for one
// unit that hardware has already placed.
func SeedFixtures(database *sql.DB) error {
	floor, x, y := 2, 14, 3

	conveyors := []struct {
		lot        int64
		maxWeight  int
		status     string
		lastStatus any
		active     bool
		floor      any
		x          any
		y          any
	}{
		{1, 2500, "Off", nil, true, nil, nil, nil},
		{1, 2500, "Off", nil, true, nil, nil, nil},
		{1, 3000, "Testing", nil, true, nil, nil, nil},
		{1, 3000, "Operational", "Testing", true, floor, x, y},
		{2, 2000, "Paused", "Testing", true, nil, nil, nil},
		{2, 1800, "Off", "Operational", false, nil, nil, nil},
	}

	for _, c := range conveyors {
		if _, err := database.Exec(
			"INSERT INTO Conveyor (ParkingLotID, Floor, X, Y, MaxWeight, Status, LastStatus, isActive) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			c.lot, c.floor, c.x, c.y, c.maxWeight, c.status, c.lastStatus, c.active,
		); err != nil {
			return fmt.Errorf("seed conveyors: %w", err)
		}
	}

	return nil
}
