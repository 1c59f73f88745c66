package db

import (
	"database/sql"
	"fmt"
	"os"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order.
// The first store revision had neither LastStatus nor isActive.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_conveyor_table",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_last_status_to_conveyor",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_is_active_to_conveyor",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_conveyor_lot_index",
		Up:      migrationV4,
	},
}

// LatestVersion returns the schema version after all migrations.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// CurrentVersion returns the highest applied schema version (0 if none).
func CurrentVersion(database *sql.DB) (int, error) {
	var v int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations applies all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	if err := ensureVersionTable(database); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Fprintf(os.Stderr, "Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Fprintf(os.Stderr, "✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// migrationV1 creates the first revision of the conveyor table.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS Conveyor (
			ID INTEGER PRIMARY KEY AUTOINCREMENT,
			ParkingLotID INTEGER NOT NULL,
			Floor INTEGER,
			X INTEGER,
			Y INTEGER,
			MaxWeight INTEGER NOT NULL,
			Status TEXT NOT NULL DEFAULT 'Off'
		)
	`)
	return err
}

// migrationV2 adds LastStatus unless an equivalent column already exists.
func migrationV2(tx *sql.Tx) error {
	present, err := hasAnyColumn(tx, conveyorTable, candidatesFor("LastStatus"))
	if err != nil || present {
		return err
	}
	_, err = tx.Exec("ALTER TABLE Conveyor ADD COLUMN LastStatus TEXT")
	return err
}

// migrationV3 adds the soft-delete flag. Existing rows become active.
func migrationV3(tx *sql.Tx) error {
	present, err := hasAnyColumn(tx, conveyorTable, candidatesFor("isActive"))
	if err != nil || present {
		return err
	}
	_, err = tx.Exec("ALTER TABLE Conveyor ADD COLUMN isActive BOOLEAN NOT NULL DEFAULT 1")
	return err
}

// migrationV4 indexes the per-lot listing. Skipped when the lot column
// carries a legacy name, since the index would reference a missing column.
func migrationV4(tx *sql.Tx) error {
	cols, err := readColumns(tx, conveyorTable)
	if err != nil {
		return err
	}
	_, hasLot := cols["parkinglotid"]
	_, hasActive := cols["isactive"]
	if !hasLot || !hasActive {
		return nil
	}
	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_conveyor_lot ON Conveyor(ParkingLotID, isActive)")
	return err
}
