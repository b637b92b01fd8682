// Package scan executes scan jobs against a station: it resolves axis
// references to parameter handles, drives slow point-by-point sweeps
// and hardware-triggered fast sweeps, and assembles labeled datasets.
package scan

import (
	"errors"
	"fmt"

	"github.com/VandersypenQutech/qtt/internal/app/station"
	"github.com/VandersypenQutech/qtt/internal/domain"
)

// Resolution errors. All of them are fatal: a scan aborts rather than
// silently skipping an axis or read channel it cannot resolve.
var (
	ErrNilAxisParam = errors.New("scan: axis parameter is nil")
	ErrNoGateSet    = errors.New("scan: station has no gate set")
	ErrEmptyVector  = errors.New("scan: vector axis has no terms")
)

// Resolver maps the AxisParam variant onto concrete parameter handles
// using the station's instrument registry and gate set.
type Resolver struct {
	station *station.Station
}

func NewResolver(st *station.Station) *Resolver {
	return &Resolver{station: st}
}

// Resolve returns the settable/gettable handle for an axis reference.
// Vector axes come back as a single logical parameter that distributes
// set values over its member channels.
func (r *Resolver) Resolve(p domain.AxisParam) (domain.Parameter, error) {
	switch ref := p.(type) {
	case nil:
		return nil, ErrNilAxisParam
	case domain.ParamHandle:
		if ref.Param == nil {
			return nil, ErrNilAxisParam
		}
		return ref.Param, nil
	case domain.ParamNamed:
		inst, err := r.station.Component(ref.Instrument)
		if err != nil {
			return nil, err
		}
		return instrumentParameter(inst, ref.Name)
	case domain.ParamOn:
		if ref.Instrument == nil {
			return nil, fmt.Errorf("scan: nil instrument for parameter %q", ref.Name)
		}
		return instrumentParameter(ref.Instrument, ref.Name)
	case domain.ParamGate:
		return r.gate(ref.Gate)
	case domain.ParamVector:
		return r.vector(ref)
	default:
		return nil, fmt.Errorf("scan: unsupported axis reference %T", p)
	}
}

func (r *Resolver) gate(name string) (domain.Parameter, error) {
	if r.station == nil || r.station.Gates == nil {
		return nil, fmt.Errorf("%w (resolving gate %q)", ErrNoGateSet, name)
	}
	param, err := r.station.Gates.Gate(name)
	if err != nil {
		return nil, err
	}
	if _, ok := r.station.SampleData.GateBoundaries[name]; ok {
		return &boundedParameter{gate: name, sample: r.station.SampleData, backing: param}, nil
	}
	return param, nil
}

func (r *Resolver) vector(ref domain.ParamVector) (domain.Parameter, error) {
	if len(ref.Terms) == 0 {
		return nil, ErrEmptyVector
	}
	resolved := make([]resolvedTerm, len(ref.Terms))
	for i, term := range ref.Terms {
		param, err := r.gate(term.Gate)
		if err != nil {
			return nil, err
		}
		resolved[i] = resolvedTerm{param: param, coeff: term.Coeff, offset: term.Offset}
	}
	return &vectorParameter{name: ref.String(), terms: resolved}, nil
}

func instrumentParameter(inst domain.Instrument, name string) (domain.Parameter, error) {
	param, err := inst.Parameter(name)
	if err != nil {
		return nil, err
	}
	if param == nil {
		return nil, fmt.Errorf("scan: instrument %q returned nil parameter %q", inst.Name(), name)
	}
	return param, nil
}

type resolvedTerm struct {
	param  domain.Parameter
	coeff  float64
	offset float64
}

// vectorParameter treats a weighted channel combination as one logical
// coordinate: setting v drives every member to coeff*v + offset.
// Read-back comes from the first term, the representative channel; a
// vector axis has no single physical value.
type vectorParameter struct {
	name  string
	terms []resolvedTerm
}

func (p *vectorParameter) Name() string { return p.name }

func (p *vectorParameter) Set(v float64) error {
	for _, t := range p.terms {
		if err := t.param.Set(t.coeff*v + t.offset); err != nil {
			return fmt.Errorf("vector axis %s: %w", p.name, err)
		}
	}
	return nil
}

func (p *vectorParameter) Get() (float64, error) {
	return p.terms[0].param.Get()
}

// boundedParameter clamps every set value to the sample's safe window
// for its gate. Reads pass through untouched.
type boundedParameter struct {
	gate    string
	sample  domain.SampleData
	backing domain.Parameter
}

func (p *boundedParameter) Name() string { return p.backing.Name() }

func (p *boundedParameter) Set(v float64) error {
	return p.backing.Set(p.sample.RestrictBoundaries(p.gate, v))
}

func (p *boundedParameter) Get() (float64, error) { return p.backing.Get() }

var (
	_ domain.Parameter = (*vectorParameter)(nil)
	_ domain.Parameter = (*boundedParameter)(nil)
)
