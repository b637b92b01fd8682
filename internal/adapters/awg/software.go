// Package awg provides waveform generators for hardware-triggered
// sweeps.
package awg

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// Software is a virtual arbitrary waveform generator: it computes the
// sawtooth sweep description a real generator would output, so
// simulated stations can exercise the fast scan path end to end.
type Software struct {
	mu      sync.Mutex
	rate    float64
	running bool
	current domain.Waveform
}

func NewSoftware(sampleRate float64) (*Software, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("awg: sample rate must be positive, got %g", sampleRate)
	}
	return &Software{rate: sampleRate}, nil
}

// SweepGate programs one sawtooth period over the given range.
func (a *Software) SweepGate(gate string, sweepRange float64, period time.Duration) (domain.Waveform, error) {
	if period <= 0 {
		return domain.Waveform{}, fmt.Errorf("awg: period must be positive, got %v", period)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = domain.Waveform{
		Gate:       gate,
		SweepRange: sweepRange,
		Period:     period,
		Samples:    int(math.Round(period.Seconds() * a.rate)),
	}
	a.running = true
	return a.current, nil
}

func (a *Software) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = false
	return nil
}

// Running reports whether a sweep waveform is currently programmed.
func (a *Software) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

var _ ports.WaveformGenerator = (*Software)(nil)
