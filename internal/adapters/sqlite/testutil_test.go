// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/parkwise/internal/adapters/sqlite"
	"github.com/example/parkwise/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is capped at one connection so every query sees the same
// in-memory store.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// newTestRepo returns a repository over a fresh in-memory store.
func newTestRepo(t *testing.T) (*sql.DB, *sqlite.ConveyorRepository) {
	t.Helper()
	testDB := setupTestDB(t)
	return testDB, sqlite.NewConveyorRepository(testDB, db.DefaultConveyorColumns())
}

// seedConveyor inserts a conveyor row directly and returns its ID.
// Used to place rows in states no operation can reach (Paused, placed by hardware).
func seedConveyor(t *testing.T, testDB *sql.DB, lotID int64, status string, lastStatus any, active bool) int64 {
	t.Helper()
	result, err := testDB.Exec(
		"INSERT INTO Conveyor (ParkingLotID, MaxWeight, Status, LastStatus, isActive) VALUES (?, 500, ?, ?, ?)",
		lotID, status, lastStatus, active,
	)
	if err != nil {
		t.Fatalf("failed to seed conveyor: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded conveyor id: %v", err)
	}
	return id
}

// placeConveyor sets Floor/X/Y as the positioning hardware would.
func placeConveyor(t *testing.T, testDB *sql.DB, id int64, floor, x, y int) {
	t.Helper()
	if _, err := testDB.Exec("UPDATE Conveyor SET Floor = ?, X = ?, Y = ? WHERE ID = ?", floor, x, y, id); err != nil {
		t.Fatalf("failed to place conveyor: %v", err)
	}
}

// forceStatus writes Status directly, bypassing the last-status rule,
// as an external hardware channel would.
func forceStatus(t *testing.T, testDB *sql.DB, id int64, status string) {
	t.Helper()
	if _, err := testDB.Exec("UPDATE Conveyor SET Status = ? WHERE ID = ?", status, id); err != nil {
		t.Fatalf("failed to force status: %v", err)
	}
}
