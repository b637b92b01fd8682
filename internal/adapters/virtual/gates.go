package virtual

import (
	"fmt"
	"sync"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// GateRef points a logical gate at a channel of a registered
// instrument.
type GateRef struct {
	Instrument string
	Channel    string
}

// VirtualGates exposes logical gate names (P1, B0, SD1...) as
// parameters backed by DAC channels of other instruments. It is both a
// station component and the station's gate set.
type VirtualGates struct {
	mu       sync.Mutex
	name     string
	registry ports.Registry
	gateMap  map[string]GateRef
}

func NewVirtualGates(reg ports.Registry, name string, gateMap map[string]GateRef) (*VirtualGates, error) {
	if len(gateMap) == 0 {
		return nil, fmt.Errorf("virtual: gate map is empty")
	}
	if reg != nil {
		name = reg.UniqueName(name)
	}
	g := &VirtualGates{
		name:     name,
		registry: reg,
		gateMap:  make(map[string]GateRef, len(gateMap)),
	}
	for gate, ref := range gateMap {
		g.gateMap[gate] = ref
	}
	if reg != nil {
		if err := reg.Register(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *VirtualGates) Name() string { return g.name }

// Gate resolves a logical gate to the parameter of its backing
// instrument channel.
func (g *VirtualGates) Gate(name string) (domain.Parameter, error) {
	g.mu.Lock()
	ref, ok := g.gateMap[name]
	g.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("virtual: no gate named %q on %q", name, g.name)
	}
	if g.registry == nil {
		return nil, fmt.Errorf("virtual: gate set %q has no registry", g.name)
	}
	inst, err := g.registry.Find(ref.Instrument)
	if err != nil {
		return nil, fmt.Errorf("gate %q: %w", name, err)
	}
	param, err := inst.Parameter(ref.Channel)
	if err != nil {
		return nil, fmt.Errorf("gate %q: %w", name, err)
	}
	return &gateParameter{name: name, backing: param}, nil
}

// Parameter makes the gate set usable as a plain instrument, so dotted
// references like "gates.P1" resolve too.
func (g *VirtualGates) Parameter(name string) (domain.Parameter, error) {
	return g.Gate(name)
}

func (g *VirtualGates) Close() error {
	if g.registry == nil {
		return nil
	}
	return g.registry.Deregister(g.name)
}

// gateParameter renames the backing channel so datasets record the
// logical gate, not the wiring.
type gateParameter struct {
	name    string
	backing domain.Parameter
}

func (p *gateParameter) Name() string          { return p.name }
func (p *gateParameter) Set(v float64) error   { return p.backing.Set(v) }
func (p *gateParameter) Get() (float64, error) { return p.backing.Get() }

var (
	_ domain.Instrument = (*VirtualGates)(nil)
	_ ports.GateSet     = (*VirtualGates)(nil)
)
