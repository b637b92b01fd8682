package registry

import (
	"fmt"
	"sync"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// MemRegistry is the in-memory instrument registry. It preserves
// registration order and is an explicit object rather than a process
// global; instruments register on creation and deregister on close.
type MemRegistry struct {
	mu     sync.Mutex
	byName map[string]domain.Instrument
	order  []string
}

func NewMemRegistry() *MemRegistry {
	return &MemRegistry{
		byName: make(map[string]domain.Instrument),
	}
}

func (r *MemRegistry) Register(inst domain.Instrument) error {
	if inst == nil {
		return fmt.Errorf("registry: instrument is nil")
	}
	name := inst.Name()
	if name == "" {
		return fmt.Errorf("registry: instrument name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("registry: instrument %q already registered", name)
	}
	r.byName[name] = inst
	r.order = append(r.order, name)
	return nil
}

func (r *MemRegistry) Deregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; !exists {
		return fmt.Errorf("registry: instrument %q not registered", name)
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemRegistry) Find(name string) (domain.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("registry: no instrument named %q", name)
	}
	return inst, nil
}

func (r *MemRegistry) Components() []domain.Instrument {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Instrument, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// UniqueName returns name if no instrument holds it, otherwise the
// first nameN (N = 2, 3, ...) that is free.
func (r *MemRegistry) UniqueName(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; !exists {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", name, i)
		if _, exists := r.byName[candidate]; !exists {
			return candidate
		}
	}
}

var _ ports.Registry = (*MemRegistry)(nil)
