package virtual

import (
	"sync"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

// ManualParameter is a free-standing settable/gettable value with no
// hardware behind it.
type ManualParameter struct {
	mu    sync.Mutex
	name  string
	value float64
}

func NewManualParameter(name string, initial float64) *ManualParameter {
	return &ManualParameter{name: name, value: initial}
}

func (p *ManualParameter) Name() string { return p.name }

func (p *ManualParameter) Set(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
	return nil
}

func (p *ManualParameter) Get() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, nil
}

// ScaledParameter derives a value from another parameter through a
// fixed division: reading returns base/division, writing sets
// base = v*division.
type ScaledParameter struct {
	name     string
	base     domain.Parameter
	division float64
}

func NewScaledParameter(name string, base domain.Parameter, division float64) *ScaledParameter {
	if division == 0 {
		division = 1
	}
	return &ScaledParameter{name: name, base: base, division: division}
}

func (p *ScaledParameter) Name() string { return p.name }

func (p *ScaledParameter) Set(v float64) error {
	return p.base.Set(v * p.division)
}

func (p *ScaledParameter) Get() (float64, error) {
	v, err := p.base.Get()
	if err != nil {
		return 0, err
	}
	return v / p.division, nil
}

var (
	_ domain.Parameter = (*ManualParameter)(nil)
	_ domain.Parameter = (*ScaledParameter)(nil)
)
