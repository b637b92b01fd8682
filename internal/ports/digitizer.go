package ports

import "github.com/VandersypenQutech/qtt/internal/domain"

// Digitizer is the minimal capability shared by acquisition devices.
type Digitizer interface {
	Name() string
	// SampleRate returns the configured sampling frequency in Hz.
	SampleRate() (float64, error)
}

// SegmentDigitizer is real acquisition hardware that measures one
// triggered segment with averaging and a pre/post-trigger margin.
type SegmentDigitizer interface {
	Digitizer
	MeasureSegment(wf domain.Waveform, channels []int, pretrigger, averages int, process bool) (domain.AcquisitionResult, error)
}

// SimulationDigitizer computes deterministic synthetic segments;
// averaging does not apply.
type SimulationDigitizer interface {
	Digitizer
	SimulateSegment(wf domain.Waveform, channels []int) (domain.AcquisitionResult, error)
}
