// Package storage persists scan datasets. Every store assigns
// collision-free locations that keep the record label as suffix, so a
// dataset can always be found back by what it was named after.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// DiskStore writes one JSON document per dataset under dated
// directories: <base>/<yyyy-mm-dd>/#<counter>_<hh-mm-ss>_<label>.
// The counter disambiguates concurrent-second collisions while the
// label stays at the end of the location.
type DiskStore struct {
	mu   sync.Mutex
	base string
	now  func() time.Time
}

func NewDiskStore(base string) (*DiskStore, error) {
	if base == "" {
		return nil, fmt.Errorf("storage: base directory is required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{base: base, now: time.Now}, nil
}

func (s *DiskStore) Name() string { return "disk" }

func (s *DiskStore) Write(ds *domain.Dataset) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("storage: dataset is nil")
	}
	label := ds.Label
	if label == "" {
		label = "dataset"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	day := now.Format("2006-01-02")
	clock := now.Format("15-04-05")
	dir := filepath.Join(s.base, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	var location, path string
	for counter := 1; ; counter++ {
		name := fmt.Sprintf("#%03d_%s_%s", counter, clock, label)
		location = day + "/" + name
		path = filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		} else if err != nil {
			return "", err
		}
	}

	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return location, nil
}

var _ ports.DatasetStore = (*DiskStore)(nil)
