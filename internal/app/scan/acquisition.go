package scan

import (
	"errors"
	"fmt"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// PretriggerSamples is the fixed pre/post-trigger margin passed to
// segment-capable hardware.
const PretriggerSamples = 2000

// emptyDataWarning is emitted once per empty acquisition; the empty
// result itself is returned unchanged so callers decide what to do.
const emptyDataWarning = "measuresegment: received empty data array"

var ErrUnsupportedDigitizer = errors.New("scan: unsupported digitizer type")

// MeasureSegment acquires one triggered segment from the digitizer.
// Dispatch is by capability: segment hardware measures with averaging
// and the fixed trigger margin, a simulator computes the segment
// deterministically and ignores averaging. Any other device is an
// error; there is no generic fallback path.
func MeasureSegment(wf domain.Waveform, averages int, dig ports.Digitizer, channels []int, obs ports.Observability) (domain.AcquisitionResult, error) {
	var (
		res domain.AcquisitionResult
		err error
	)
	switch d := dig.(type) {
	case ports.SegmentDigitizer:
		res, err = d.MeasureSegment(wf, channels, PretriggerSamples, averages, true)
	case ports.SimulationDigitizer:
		res, err = d.SimulateSegment(wf, channels)
	default:
		return domain.AcquisitionResult{}, fmt.Errorf("%w: %T", ErrUnsupportedDigitizer, dig)
	}
	if err != nil {
		return domain.AcquisitionResult{}, err
	}

	if res.Empty() && obs != nil {
		obs.LogWarn(emptyDataWarning)
	}
	return res, nil
}

// SamplingFrequency reads the digitizer's configured sample rate and
// returns it verbatim; nothing is derived or cached.
func SamplingFrequency(dig ports.Digitizer) (float64, error) {
	if dig == nil {
		return 0, fmt.Errorf("%w: no digitizer configured", ErrUnsupportedDigitizer)
	}
	return dig.SampleRate()
}
