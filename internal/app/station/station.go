// Package station aggregates the instruments one measurement setup
// exposes: the registry of components, the logical gate set, and the
// optional acquisition and waveform hardware. A scan assumes exclusive
// ownership of the station's instruments for its whole duration.
package station

import (
	"fmt"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

type Station struct {
	Registry ports.Registry
	// Gates resolves bare gate names; nil when the setup has none.
	Gates ports.GateSet
	// Digitizer is the acquisition device for triggered scans.
	Digitizer ports.Digitizer
	// AWG is the waveform generator; nil disables the fast scan path.
	AWG ports.WaveformGenerator
	// SampleData carries per-sample settings such as gate boundaries.
	SampleData domain.SampleData
}

func New(reg ports.Registry) *Station {
	return &Station{Registry: reg}
}

// AddComponent registers an instrument with the station registry.
func (s *Station) AddComponent(inst domain.Instrument) error {
	if s.Registry == nil {
		return fmt.Errorf("station: no registry configured")
	}
	return s.Registry.Register(inst)
}

// Component resolves a registered instrument by name.
func (s *Station) Component(name string) (domain.Instrument, error) {
	if s.Registry == nil {
		return nil, fmt.Errorf("station: no registry configured")
	}
	return s.Registry.Find(name)
}
