package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 19, 14, 30, 5, 0, time.UTC)
}

func TestDiskStoreLocationCarriesLabel(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	store.now = fixedClock

	ds := &domain.Dataset{ID: "a", Label: "scan1D"}
	location, err := store.Write(ds)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasSuffix(location, "scan1D") {
		t.Fatalf("location %q does not end with the record label", location)
	}
	if !strings.HasPrefix(location, "2024-03-19/") {
		t.Fatalf("location %q missing dated directory", location)
	}
}

func TestDiskStoreDisambiguatesCollisions(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	store.now = fixedClock

	first, err := store.Write(&domain.Dataset{ID: "a", Label: "123unittest123"})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	second, err := store.Write(&domain.Dataset{ID: "b", Label: "123unittest123"})
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct locations, both are %q", first)
	}
	for _, loc := range []string{first, second} {
		if !strings.HasSuffix(loc, "123unittest123") {
			t.Fatalf("location %q lost the label after disambiguation", loc)
		}
	}
}

func TestDiskStoreRoundTrip(t *testing.T) {
	base := t.TempDir()
	store, err := NewDiskStore(base)
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}

	ds := &domain.Dataset{
		ID:    "roundtrip",
		Label: "scan2D",
		Coords: []domain.Coordinate{
			{Name: "P1", Values: []float64{0, 1, 2}},
		},
		Arrays: []domain.MeasuredArray{
			{Name: "keithley", Values: []float64{0.5, 0.6, 0.7}},
		},
		Metadata: map[string]any{"hi": "world"},
	}
	location, err := store.Write(ds)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(location)+".json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got domain.Dataset
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != "roundtrip" || len(got.Arrays) != 1 || got.Arrays[0].Values[2] != 0.7 {
		t.Fatalf("unexpected dataset read back: %+v", got)
	}
	if got.Metadata["hi"] != "world" {
		t.Fatalf("metadata lost: %+v", got.Metadata)
	}
}
