package db

import (
	"database/sql"
	"fmt"
	"strings"
)

const conveyorTable = "Conveyor"

// conveyorColumnCandidates lists, per logical field, the column names seen
// across store revisions. The first name is canonical.
var conveyorColumnCandidates = []struct {
	Field      string
	Candidates []string
}{
	{"ID", []string{"ID", "id", "ConveyorID"}},
	{"ParkingLotID", []string{"ParkingLotID", "parking_lot_id", "LotID"}},
	{"Floor", []string{"Floor", "FloorNumber", "floor"}},
	{"X", []string{"X", "x"}},
	{"Y", []string{"Y", "y"}},
	{"MaxWeight", []string{"MaxWeight", "MaxVehicleWeightKg", "max_weight"}},
	{"Status", []string{"Status", "status"}},
	{"LastStatus", []string{"LastStatus", "last_status"}},
	{"isActive", []string{"isActive", "IsActive", "is_active"}},
}

// ConveyorColumns maps each logical conveyor field to the physical column
// name of the open store. Resolve it once at startup; the repository builds
// its statements from it.
type ConveyorColumns struct {
	Table        string
	ID           string
	ParkingLotID string
	Floor        string
	X            string
	Y            string
	MaxWeight    string
	Status       string
	LastStatus   string
	IsActive     string
}

// DefaultConveyorColumns returns the mapping for a store created from SchemaSQL.
func DefaultConveyorColumns() ConveyorColumns {
	return ConveyorColumns{
		Table:        conveyorTable,
		ID:           "ID",
		ParkingLotID: "ParkingLotID",
		Floor:        "Floor",
		X:            "X",
		Y:            "Y",
		MaxWeight:    "MaxWeight",
		Status:       "Status",
		LastStatus:   "LastStatus",
		IsActive:     "isActive",
	}
}

// ResolveConveyorColumns inspects the Conveyor table and picks, for every
// field, the first candidate column that exists. Missing fields are an error.
func ResolveConveyorColumns(database *sql.DB) (ConveyorColumns, error) {
	present, err := readColumns(database, conveyorTable)
	if err != nil {
		return ConveyorColumns{}, err
	}
	if len(present) == 0 {
		return ConveyorColumns{}, fmt.Errorf("table %s not found", conveyorTable)
	}

	resolved := make(map[string]string, len(conveyorColumnCandidates))
	var missing []string
	for _, c := range conveyorColumnCandidates {
		name, ok := pickColumn(present, c.Candidates)
		if !ok {
			missing = append(missing, c.Field)
			continue
		}
		resolved[c.Field] = name
	}
	if len(missing) > 0 {
		return ConveyorColumns{}, fmt.Errorf("table %s is missing columns: %s", conveyorTable, strings.Join(missing, ", "))
	}

	return ConveyorColumns{
		Table:        conveyorTable,
		ID:           resolved["ID"],
		ParkingLotID: resolved["ParkingLotID"],
		Floor:        resolved["Floor"],
		X:            resolved["X"],
		Y:            resolved["Y"],
		MaxWeight:    resolved["MaxWeight"],
		Status:       resolved["Status"],
		LastStatus:   resolved["LastStatus"],
		IsActive:     resolved["isActive"],
	}, nil
}

// Quote returns name as a quoted SQL identifier. Names come from the
// column mapping, never from user input.
func Quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func candidatesFor(field string) []string {
	for _, c := range conveyorColumnCandidates {
		if c.Field == field {
			return c.Candidates
		}
	}
	return nil
}

func pickColumn(present map[string]string, candidates []string) (string, bool) {
	for _, cand := range candidates {
		if actual, ok := present[strings.ToLower(cand)]; ok {
			return actual, true
		}
	}
	return "", false
}

func hasAnyColumn(q queryer, table string, candidates []string) (bool, error) {
	present, err := readColumns(q, table)
	if err != nil {
		return false, err
	}
	_, ok := pickColumn(present, candidates)
	return ok, nil
}

// readColumns returns the columns of table keyed by lower-cased name.
// SQLite identifiers are case-insensitive.
func readColumns(q queryer, table string) (map[string]string, error) {
	rows, err := q.Query(fmt.Sprintf("PRAGMA table_info(%s)", Quote(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		cols[strings.ToLower(name)] = name
	}
	return cols, rows.Err()
}
