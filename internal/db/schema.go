package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository that references a missing column fails with "no such column".
//
// When adding new columns:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Add the column to conveyorColumnCandidates in columns.go
const SchemaSQL = `
-- Conveyors (car-lift units; Floor/X/Y are assigned by hardware)
CREATE TABLE IF NOT EXISTS Conveyor (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	ParkingLotID INTEGER NOT NULL,
	Floor INTEGER,
	X INTEGER,
	Y INTEGER,
	MaxWeight INTEGER NOT NULL CHECK(MaxWeight > 0),
	Status TEXT NOT NULL CHECK(Status IN ('Off', 'Testing', 'Operational', 'Paused')) DEFAULT 'Off',
	LastStatus TEXT CHECK(LastStatus IS NULL OR LastStatus IN ('Testing', 'Operational')),
	isActive BOOLEAN NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_conveyor_lot ON Conveyor(ParkingLotID, isActive);
`

// InitSchema creates or upgrades the database schema.
func InitSchema(database *sql.DB) error {
	hasVersion, err := tableExists(database, "schema_version")
	if err != nil {
		return err
	}
	if hasVersion {
		// schema_version table exists - run any pending migrations
		return RunMigrations(database)
	}

	hasConveyor, err := tableExists(database, "Conveyor")
	if err != nil {
		return err
	}
	if hasConveyor {
		// Store predates versioning - run migrations to upgrade
		return RunMigrations(database)
	}

	// Completely fresh install - create modern schema directly and mark
	// all migrations as applied
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to stamp schema version %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

func tableExists(q queryer, name string) (bool, error) {
	var count int
	err := q.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}
