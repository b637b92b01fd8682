package storage

import (
	"fmt"
	"sync"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// MemStore keeps datasets in memory with counter-based locations
// (#<counter>_<label>). Used by tests and throwaway sessions.
type MemStore struct {
	mu       sync.Mutex
	counter  int
	datasets map[string]*domain.Dataset
}

func NewMemStore() *MemStore {
	return &MemStore{datasets: make(map[string]*domain.Dataset)}
}

func (s *MemStore) Name() string { return "memory" }

func (s *MemStore) Write(ds *domain.Dataset) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("storage: dataset is nil")
	}
	label := ds.Label
	if label == "" {
		label = "dataset"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	location := fmt.Sprintf("#%03d_%s", s.counter, label)
	s.datasets[location] = ds
	return location, nil
}

// Dataset returns the stored dataset at location, or nil.
func (s *MemStore) Dataset(location string) *domain.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.datasets[location]
}

// Len reports how many datasets were written.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.datasets)
}

var _ ports.DatasetStore = (*MemStore)(nil)
