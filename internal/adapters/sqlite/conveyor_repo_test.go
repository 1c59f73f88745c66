package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/parkwise/internal/adapters/sqlite"
	"github.com/example/parkwise/internal/core/conveyor"
	"github.com/example/parkwise/internal/db"
	"github.com/example/parkwise/internal/ports/secondary"
)

// createTestConveyor is a helper that creates an Off conveyor.
func createTestConveyor(t *testing.T, repo *sqlite.ConveyorRepository, ctx context.Context, lotID int64, maxWeight int) int64 {
	t.Helper()

	id, err := repo.Create(ctx, &secondary.ConveyorRecord{
		ParkingLotID: lotID,
		MaxWeightKg:  maxWeight,
		Status:       string(conveyor.StatusOff),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return id
}

func TestConveyorRepository_Create(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	id := createTestConveyor(t, repo, ctx, 3, 500)
	if id <= 0 {
		t.Fatalf("expected positive generated id, got %d", id)
	}

	retrieved, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.ParkingLotID != 3 {
		t.Errorf("expected lot 3, got %d", retrieved.ParkingLotID)
	}
	if retrieved.MaxWeightKg != 500 {
		t.Errorf("expected max weight 500, got %d", retrieved.MaxWeightKg)
	}
	if retrieved.Status != "Off" {
		t.Errorf("expected status 'Off', got '%s'", retrieved.Status)
	}
	if retrieved.LastStatus != "" {
		t.Errorf("expected unset last status, got '%s'", retrieved.LastStatus)
	}
	if !retrieved.IsActive {
		t.Error("expected new conveyor to be active")
	}
	if retrieved.Floor != nil || retrieved.X != nil || retrieved.Y != nil {
		t.Error("expected Floor/X/Y to be unset on creation")
	}
}

func TestConveyorRepository_Create_SequentialIDs(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	first := createTestConveyor(t, repo, ctx, 1, 500)
	second := createTestConveyor(t, repo, ctx, 1, 500)
	if second <= first {
		t.Errorf("expected increasing ids, got %d then %d", first, second)
	}
}

func TestConveyorRepository_GetByID_NotFound(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	if !errors.Is(err, conveyor.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConveyorRepository_GetByID_ReturnsInactive(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()

	id := seedConveyor(t, testDB, 1, "Off", nil, false)

	retrieved, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.IsActive {
		t.Error("expected inactive conveyor")
	}
}

func TestConveyorRepository_GetByID_ReadsPosition(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()

	id := createTestConveyor(t, repo, ctx, 1, 500)
	placeConveyor(t, testDB, id, 2, 14, 3)

	retrieved, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Floor == nil || *retrieved.Floor != 2 {
		t.Errorf("expected floor 2, got %v", retrieved.Floor)
	}
	if retrieved.X == nil || *retrieved.X != 14 || retrieved.Y == nil || *retrieved.Y != 3 {
		t.Errorf("expected X=14 Y=3, got %v %v", retrieved.X, retrieved.Y)
	}
}

func TestConveyorRepository_List_DefaultExcludesInactive(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()

	a := createTestConveyor(t, repo, ctx, 1, 500)
	seedConveyor(t, testDB, 1, "Off", nil, false)
	b := createTestConveyor(t, repo, ctx, 1, 600)
	createTestConveyor(t, repo, ctx, 2, 700)

	conveyors, err := repo.List(ctx, secondary.ConveyorFilters{ParkingLotID: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(conveyors) != 2 {
		t.Fatalf("expected 2 active conveyors in lot 1, got %d", len(conveyors))
	}
	if conveyors[0].ID != a || conveyors[1].ID != b {
		t.Errorf("expected ids [%d %d] in order, got [%d %d]", a, b, conveyors[0].ID, conveyors[1].ID)
	}
}

func TestConveyorRepository_List_IncludeInactiveSortsActiveFirst(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()

	inactive := seedConveyor(t, testDB, 1, "Off", nil, false)
	a := createTestConveyor(t, repo, ctx, 1, 500)
	b := createTestConveyor(t, repo, ctx, 1, 600)

	conveyors, err := repo.List(ctx, secondary.ConveyorFilters{ParkingLotID: 1, IncludeInactive: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(conveyors) != 3 {
		t.Fatalf("expected 3 conveyors, got %d", len(conveyors))
	}
	got := []int64{conveyors[0].ID, conveyors[1].ID, conveyors[2].ID}
	want := []int64{a, b, inactive}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], got[i])
		}
	}
}

func TestConveyorRepository_List_AllLots(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	createTestConveyor(t, repo, ctx, 1, 500)
	createTestConveyor(t, repo, ctx, 2, 500)

	conveyors, err := repo.List(ctx, secondary.ConveyorFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(conveyors) != 2 {
		t.Errorf("expected 2 conveyors across lots, got %d", len(conveyors))
	}
}

func TestConveyorRepository_UpdateStatus_LastStatusRule(t *testing.T) {
	tests := []struct {
		name           string
		fromStatus     string
		fromLast       any
		toStatus       string
		wantLastStatus string
	}{
		{"Off to Testing keeps unset", "Off", nil, "Testing", ""},
		{"Testing to Operational records Testing", "Testing", nil, "Operational", "Testing"},
		{"Operational to Testing records Operational", "Operational", "Testing", "Testing", "Operational"},
		{"Operational to Off keeps last", "Operational", "Testing", "Off", "Testing"},
		{"Testing to Paused does not record Testing", "Testing", nil, "Paused", ""},
		{"Paused to Testing keeps last", "Paused", "Operational", "Testing", "Operational"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB, repo := newTestRepo(t)
			ctx := context.Background()
			id := seedConveyor(t, testDB, 1, tt.fromStatus, tt.fromLast, true)

			if err := repo.UpdateStatus(ctx, id, tt.fromStatus, tt.toStatus); err != nil {
				t.Fatalf("UpdateStatus failed: %v", err)
			}

			retrieved, err := repo.GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if retrieved.Status != tt.toStatus {
				t.Errorf("expected status %s, got %s", tt.toStatus, retrieved.Status)
			}
			if retrieved.LastStatus != tt.wantLastStatus {
				t.Errorf("expected last status %q, got %q", tt.wantLastStatus, retrieved.LastStatus)
			}
		})
	}
}

func TestConveyorRepository_UpdateStatus_Inactive(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()
	id := seedConveyor(t, testDB, 1, "Off", nil, false)

	err := repo.UpdateStatus(ctx, id, "Off", "Testing")
	if !errors.Is(err, conveyor.ErrPrecondition) {
		t.Errorf("expected ErrPrecondition for inactive conveyor, got %v", err)
	}

	retrieved, _ := repo.GetByID(ctx, id)
	if retrieved.Status != "Off" {
		t.Errorf("expected status unchanged, got %s", retrieved.Status)
	}
}

func TestConveyorRepository_UpdateStatus_StatusChangedSinceRead(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()
	id := seedConveyor(t, testDB, 1, "Off", nil, true)

	// Hardware pauses the unit after the caller read it as Off.
	forceStatus(t, testDB, id, "Paused")

	err := repo.UpdateStatus(ctx, id, "Off", "Testing")
	if !errors.Is(err, conveyor.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}

	retrieved, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Status != "Paused" {
		t.Errorf("expected status to stay 'Paused', got %s", retrieved.Status)
	}
}

func TestConveyorRepository_UpdateMaxWeight(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	id := createTestConveyor(t, repo, ctx, 1, 500)

	if err := repo.UpdateMaxWeight(ctx, id, 750); err != nil {
		t.Fatalf("UpdateMaxWeight failed: %v", err)
	}

	retrieved, _ := repo.GetByID(ctx, id)
	if retrieved.MaxWeightKg != 750 {
		t.Errorf("expected max weight 750, got %d", retrieved.MaxWeightKg)
	}

	if err := repo.UpdateMaxWeight(ctx, 999, 750); !errors.Is(err, conveyor.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConveyorRepository_Move_ClearsPosition(t *testing.T) {
	testDB, repo := newTestRepo(t)
	ctx := context.Background()
	id := createTestConveyor(t, repo, ctx, 1, 500)
	placeConveyor(t, testDB, id, 2, 14, 3)

	if err := repo.Move(ctx, id, 7); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	retrieved, _ := repo.GetByID(ctx, id)
	if retrieved.ParkingLotID != 7 {
		t.Errorf("expected lot 7, got %d", retrieved.ParkingLotID)
	}
	if retrieved.Floor != nil || retrieved.X != nil || retrieved.Y != nil {
		t.Error("expected Floor/X/Y cleared after move")
	}
}

func TestConveyorRepository_Deactivate(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	id := createTestConveyor(t, repo, ctx, 1, 500)

	if err := repo.Deactivate(ctx, id); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	retrieved, _ := repo.GetByID(ctx, id)
	if retrieved.IsActive {
		t.Error("expected conveyor to be inactive")
	}

	// Second deactivation matches no active row
	if err := repo.Deactivate(ctx, id); !errors.Is(err, conveyor.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConveyorRepository_UnknownStatusReadsAsOff(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	// A legacy table without CHECK constraints can hold anything
	if _, err := testDB.Exec("DROP TABLE Conveyor"); err != nil {
		t.Fatal(err)
	}
	if _, err := testDB.Exec(`CREATE TABLE Conveyor (
		ID INTEGER PRIMARY KEY AUTOINCREMENT, ParkingLotID INTEGER, Floor INTEGER, X INTEGER, Y INTEGER,
		MaxWeight INTEGER, Status TEXT, LastStatus TEXT, isActive BOOLEAN)`); err != nil {
		t.Fatal(err)
	}
	if _, err := testDB.Exec("INSERT INTO Conveyor (ParkingLotID, MaxWeight, Status, LastStatus, isActive) VALUES (1, 500, 'Broken', 'Paused', NULL)"); err != nil {
		t.Fatal(err)
	}

	repo := sqlite.NewConveyorRepository(testDB, db.DefaultConveyorColumns())
	retrieved, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Status != "Off" {
		t.Errorf("expected unknown status to read as Off, got %s", retrieved.Status)
	}
	if retrieved.LastStatus != "" {
		t.Errorf("expected invalid last status to read as unset, got %s", retrieved.LastStatus)
	}
	if retrieved.IsActive {
		t.Error("expected NULL isActive to read as inactive")
	}
}

func TestConveyorRepository_NullActiveFlagMatchesWrites(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	if _, err := testDB.Exec("DROP TABLE Conveyor"); err != nil {
		t.Fatal(err)
	}
	if _, err := testDB.Exec(`CREATE TABLE Conveyor (
		ID INTEGER PRIMARY KEY AUTOINCREMENT, ParkingLotID INTEGER NOT NULL, Floor INTEGER, X INTEGER, Y INTEGER,
		MaxWeight INTEGER NOT NULL, Status TEXT NOT NULL, LastStatus TEXT, IsActive BOOLEAN)`); err != nil {
		t.Fatal(err)
	}
	if _, err := testDB.Exec("INSERT INTO Conveyor (ParkingLotID, MaxWeight, Status, IsActive) VALUES (1, 500, 'Off', NULL)"); err != nil {
		t.Fatal(err)
	}

	cols, err := db.ResolveConveyorColumns(testDB)
	if err != nil {
		t.Fatalf("ResolveConveyorColumns failed: %v", err)
	}
	repo := sqlite.NewConveyorRepository(testDB, cols)

	retrieved, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.IsActive {
		t.Fatal("expected NULL flag to read as inactive")
	}

	active, err := repo.List(ctx, secondary.ConveyorFilters{ParkingLotID: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("default list must agree with the read flag, got %d rows", len(active))
	}
	all, err := repo.List(ctx, secondary.ConveyorFilters{ParkingLotID: 1, IncludeInactive: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 || all[0].IsActive {
		t.Errorf("expected the row as inactive with IncludeInactive, got %+v", all)
	}

	if err := repo.Deactivate(ctx, 1); !errors.Is(err, conveyor.ErrNotFound) {
		t.Errorf("expected ErrNotFound writing an inactive row, got %v", err)
	}
}

func TestConveyorRepository_DriftedColumns(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	if _, err := testDB.Exec("DROP TABLE Conveyor"); err != nil {
		t.Fatal(err)
	}
	if _, err := testDB.Exec(`CREATE TABLE Conveyor (
		ID INTEGER PRIMARY KEY AUTOINCREMENT, ParkingLotID INTEGER NOT NULL, FloorNumber INTEGER, X INTEGER, Y INTEGER,
		MaxVehicleWeightKg INTEGER NOT NULL, Status TEXT NOT NULL, LastStatus TEXT, IsActive BOOLEAN NOT NULL DEFAULT 1)`); err != nil {
		t.Fatal(err)
	}

	cols, err := db.ResolveConveyorColumns(testDB)
	if err != nil {
		t.Fatalf("ResolveConveyorColumns failed: %v", err)
	}
	repo := sqlite.NewConveyorRepository(testDB, cols)

	id := createTestConveyor(t, repo, ctx, 4, 1200)
	if err := repo.UpdateMaxWeight(ctx, id, 1300); err != nil {
		t.Fatalf("UpdateMaxWeight failed: %v", err)
	}
	if err := repo.Move(ctx, id, 5); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.MaxWeightKg != 1300 || retrieved.ParkingLotID != 5 {
		t.Errorf("unexpected record: %+v", retrieved)
	}
}
