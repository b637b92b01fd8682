package ports

import (
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

// WaveformGenerator drives a gate with a periodic sweep signal for
// hardware-triggered scans. Fast scanning is an optional acceleration
// path; a station without a generator falls back to slow scanning.
type WaveformGenerator interface {
	SweepGate(gate string, sweepRange float64, period time.Duration) (domain.Waveform, error)
	Stop() error
}
