// Package digitizer provides the acquisition devices a station can
// carry: a deterministic software simulator and a Spectrum M-series
// style card wrapper.
package digitizer

import (
	"fmt"
	"math"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// Simulation is a software digitizer producing deterministic synthetic
// segments. Averaging does not apply: the same waveform and channels
// always yield the same samples.
type Simulation struct {
	name string
	rate float64
}

func NewSimulation(name string, sampleRate float64) (*Simulation, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("digitizer: sample rate must be positive, got %g", sampleRate)
	}
	return &Simulation{name: name, rate: sampleRate}, nil
}

func (s *Simulation) Name() string { return s.name }

func (s *Simulation) SampleRate() (float64, error) { return s.rate, nil }

// SimulateSegment computes one synthetic segment: a smooth response
// over the sweep range with a per-channel offset, loosely shaped like
// a charge-sensing trace.
func (s *Simulation) SimulateSegment(wf domain.Waveform, channels []int) (domain.AcquisitionResult, error) {
	if wf.Samples <= 0 {
		return domain.AcquisitionResult{}, fmt.Errorf("digitizer: waveform has no samples")
	}

	res := domain.AcquisitionResult{Channels: make([][]float64, len(channels))}
	for i, ch := range channels {
		trace := make([]float64, wf.Samples)
		for j := range trace {
			x := float64(j) / float64(wf.Samples)
			trace[j] = math.Tanh(4*(x-0.5))*wf.SweepRange/2 + 0.1*float64(ch)
		}
		res.Channels[i] = trace
	}
	return res, nil
}

var _ ports.SimulationDigitizer = (*Simulation)(nil)
