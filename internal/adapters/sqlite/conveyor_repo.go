// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/parkwise/internal/core/conveyor"
	schema "github.com/example/parkwise/internal/db"
	"github.com/example/parkwise/internal/ports/secondary"
)

// ConveyorRepository implements secondary.ConveyorRepository with SQLite.
// Statements are built once from the resolved column mapping; every value
// is bound through a placeholder.
type ConveyorRepository struct {
	db *sql.DB

	selectSQL       string
	getByIDSQL      string
	insertSQL       string
	updateStatusSQL string
	updateWeightSQL string
	moveSQL         string
	deactivateSQL   string
	orderActiveSQL  string
	cols            schema.ConveyorColumns
}

// NewConveyorRepository creates a new SQLite conveyor repository.
func NewConveyorRepository(db *sql.DB, cols schema.ConveyorColumns) *ConveyorRepository {
	q := schema.Quote
	table := q(cols.Table)
	id, lot, active := q(cols.ID), q(cols.ParkingLotID), q(cols.IsActive)
	status, last := q(cols.Status), q(cols.LastStatus)

	selectSQL := fmt.Sprintf("SELECT %s FROM %s", strings.Join([]string{
		id, lot, q(cols.Floor), q(cols.X), q(cols.Y), q(cols.MaxWeight), status, last, active,
	}, ", "), table)

	return &ConveyorRepository{
		db:         db,
		cols:       cols,
		selectSQL:  selectSQL,
		getByIDSQL: selectSQL + fmt.Sprintf(" WHERE %s = ?", id),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			table, lot, q(cols.Floor), q(cols.X), q(cols.Y), q(cols.MaxWeight), status, last, active),
		// SET expressions see the pre-update row, so LastStatus captures
		// the prior Status in the same statement that replaces it.
		updateStatusSQL: fmt.Sprintf(
			"UPDATE %s SET %s = CASE WHEN %s IN (?, ?) AND ? NOT IN (?, ?) THEN %s ELSE %s END, %s = ? WHERE %s = ? AND %s = ? AND %s = ?",
			table, last, status, status, last, status, id, active, status),
		updateWeightSQL: fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ? AND %s = ?",
			table, q(cols.MaxWeight), id, active),
		moveSQL: fmt.Sprintf("UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ? AND %s = ?",
			table, lot, q(cols.Floor), q(cols.X), q(cols.Y), id, active),
		deactivateSQL: fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ? AND %s = ?",
			table, active, id, active),
		orderActiveSQL: fmt.Sprintf(" ORDER BY %s DESC, %s ASC", active, id),
	}
}

// withConn acquires a dedicated connection for one operation and releases
// it on every exit path.
func (r *ConveyorRepository) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// Create persists a new conveyor and returns the store-assigned ID.
func (r *ConveyorRepository) Create(ctx context.Context, record *secondary.ConveyorRecord) (int64, error) {
	var lastStatus sql.NullString
	if record.LastStatus != "" {
		lastStatus = sql.NullString{String: record.LastStatus, Valid: true}
	}

	var newID int64
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, r.insertSQL,
			record.ParkingLotID, nil, nil, nil, record.MaxWeightKg, record.Status, lastStatus, true,
		)
		if err != nil {
			return fmt.Errorf("failed to create conveyor: %w", err)
		}

		newID, err = readGeneratedID(ctx, conn, result)
		return err
	})
	if err != nil {
		return 0, err
	}

	return newID, nil
}

// readGeneratedID reads the identity of the row just inserted, falling back
// to last_insert_rowid() on the same connection when the driver result has
// none.
func readGeneratedID(ctx context.Context, conn *sql.Conn, result sql.Result) (int64, error) {
	id, err := result.LastInsertId()
	if err == nil && id > 0 {
		return id, nil
	}

	if err := conn.QueryRowContext(ctx, "SELECT last_insert_rowid()").Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read generated conveyor ID: %w", err)
	}
	if id <= 0 {
		return 0, errors.New("insert succeeded but could not read generated conveyor ID")
	}
	return id, nil
}

// GetByID retrieves a conveyor by its ID, active or not.
func (r *ConveyorRepository) GetByID(ctx context.Context, id int64) (*secondary.ConveyorRecord, error) {
	var record *secondary.ConveyorRecord
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		record, err = scanConveyor(conn.QueryRowContext(ctx, r.getByIDSQL, id))
		if err == sql.ErrNoRows {
			return fmt.Errorf("conveyor %d %w", id, conveyor.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get conveyor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves conveyors matching the given filters. Without
// IncludeInactive only active rows are returned, ordered by ID; with it,
// active rows come first.
func (r *ConveyorRepository) List(ctx context.Context, filters secondary.ConveyorFilters) ([]*secondary.ConveyorRecord, error) {
	query := r.selectSQL + " WHERE 1=1"
	args := []any{}

	if filters.ParkingLotID != 0 {
		query += fmt.Sprintf(" AND %s = ?", schema.Quote(r.cols.ParkingLotID))
		args = append(args, filters.ParkingLotID)
	}

	if filters.IncludeInactive {
		query += r.orderActiveSQL
	} else {
		query += fmt.Sprintf(" AND %s = ?", schema.Quote(r.cols.IsActive))
		args = append(args, true)
		query += fmt.Sprintf(" ORDER BY %s ASC", schema.Quote(r.cols.ID))
	}

	var conveyors []*secondary.ConveyorRecord
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to list conveyors: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanConveyor(rows)
			if err != nil {
				return fmt.Errorf("failed to scan conveyor: %w", err)
			}
			conveyors = append(conveyors, record)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return conveyors, nil
}

// UpdateStatus moves an active conveyor from one status to another and
// applies the last-status rule in the same statement. A row no longer in
// the from status is left alone and reported as ErrPrecondition.
func (r *ConveyorRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	return r.exec(ctx, "update conveyor status", r.updateStatusSQL,
		fmt.Errorf("%w: active conveyor %d is no longer %s", conveyor.ErrPrecondition, id, from),
		string(conveyor.StatusTesting), string(conveyor.StatusOperational),
		to, string(conveyor.StatusOff), string(conveyor.StatusPaused),
		to, id, true, from,
	)
}

// UpdateMaxWeight writes a new max weight.
func (r *ConveyorRepository) UpdateMaxWeight(ctx context.Context, id int64, maxWeightKg int) error {
	return r.exec(ctx, "update conveyor max weight", r.updateWeightSQL, notFound(id), maxWeightKg, id, true)
}

// Move reassigns a conveyor to another parking lot and clears Floor, X and Y.
func (r *ConveyorRepository) Move(ctx context.Context, id int64, parkingLotID int64) error {
	return r.exec(ctx, "move conveyor", r.moveSQL, notFound(id), parkingLotID, nil, nil, nil, id, true)
}

// Deactivate soft-deletes a conveyor.
func (r *ConveyorRepository) Deactivate(ctx context.Context, id int64) error {
	return r.exec(ctx, "deactivate conveyor", r.deactivateSQL, notFound(id), false, id, true)
}

func notFound(id int64) error {
	return fmt.Errorf("active conveyor %d %w", id, conveyor.ErrNotFound)
}

// exec runs a single-row write against an active conveyor and returns
// noRows when nothing matched.
func (r *ConveyorRepository) exec(ctx context.Context, action, query string, noRows error, args ...any) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to %s: %w", action, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to %s: %w", action, err)
		}
		if rowsAffected == 0 {
			return noRows
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConveyor(row rowScanner) (*secondary.ConveyorRecord, error) {
	var (
		floor, x, y sql.NullInt64
		status      sql.NullString
		lastStatus  sql.NullString
		isActive    sql.NullBool
	)

	record := &secondary.ConveyorRecord{}
	err := row.Scan(&record.ID, &record.ParkingLotID, &floor, &x, &y, &record.MaxWeightKg, &status, &lastStatus, &isActive)
	if err != nil {
		return nil, err
	}

	record.Floor = nullableInt(floor)
	record.X = nullableInt(x)
	record.Y = nullableInt(y)
	record.Status = string(conveyor.ParseStatus(status.String))
	record.LastStatus = string(conveyor.ParseLastStatus(lastStatus.String))
	// Writes match isActive = 1 only, so a NULL flag reads as inactive.
	record.IsActive = isActive.Valid && isActive.Bool

	return record, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// Ensure ConveyorRepository implements the interface
var _ secondary.ConveyorRepository = (*ConveyorRepository)(nil)
