package storage

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

func TestSQLStoreWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := NewSQLStore(db, "datasets")
	store.now = fixedClock

	completed := time.Date(2024, 3, 19, 14, 30, 6, 0, time.UTC)
	ds := &domain.Dataset{
		ID:       "run-1",
		Label:    "scan1D",
		ScanType: domain.Scan1D,
		Coords: []domain.Coordinate{
			{Name: "P1", Values: []float64{0, 2, 4}},
		},
		Arrays: []domain.MeasuredArray{
			{Name: "r", Values: []float64{1, 2, 3}},
		},
		Metadata:  map[string]any{"hi": "world"},
		Completed: completed,
	}

	expectedQuery := regexp.QuoteMeta(
		"INSERT INTO datasets (id, location, label, scantype, coords, arrays, metadata, completed) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)")
	mock.ExpectExec(expectedQuery).
		WithArgs("run-1", "2024-03-19/run-1_scan1D", "scan1D", "scan1D",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), completed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	location, err := store.Write(ds)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasSuffix(location, "scan1D") {
		t.Fatalf("location %q does not end with the record label", location)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLStoreName(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	if NewSQLStore(db, "").Name() != "postgres" {
		t.Fatalf("unexpected store name")
	}
}

func TestMemStoreCounterLocations(t *testing.T) {
	store := NewMemStore()

	first, err := store.Write(&domain.Dataset{Label: "scan1D"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	second, err := store.Write(&domain.Dataset{Label: "scan1D"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	if first != "#001_scan1D" || second != "#002_scan1D" {
		t.Fatalf("unexpected locations %q, %q", first, second)
	}
	if store.Len() != 2 {
		t.Fatalf("store length = %d, want 2", store.Len())
	}
	if store.Dataset(first) == nil {
		t.Fatalf("dataset not retrievable at %q", first)
	}
}
