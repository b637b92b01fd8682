package digitizer

import (
	"fmt"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// Card is the low-level surface of a Spectrum M-series acquisition
// card driver. The concrete implementation talks to the vendor
// library; tests inject fakes.
type Card interface {
	SampleRate() (float64, error)
	AcquireSegment(wf domain.Waveform, channels []int, pretrigger, averages int, process bool) ([][]float64, error)
}

// Spectrum adapts a Card to the segment-digitizer port used by the
// scan engine.
type Spectrum struct {
	name string
	card Card
}

func NewSpectrum(name string, card Card) (*Spectrum, error) {
	if card == nil {
		return nil, fmt.Errorf("digitizer: card is required")
	}
	return &Spectrum{name: name, card: card}, nil
}

func (s *Spectrum) Name() string { return s.name }

func (s *Spectrum) SampleRate() (float64, error) { return s.card.SampleRate() }

func (s *Spectrum) MeasureSegment(wf domain.Waveform, channels []int, pretrigger, averages int, process bool) (domain.AcquisitionResult, error) {
	raw, err := s.card.AcquireSegment(wf, channels, pretrigger, averages, process)
	if err != nil {
		return domain.AcquisitionResult{}, fmt.Errorf("digitizer %s: %w", s.name, err)
	}
	return domain.AcquisitionResult{Channels: raw}, nil
}

var _ ports.SegmentDigitizer = (*Spectrum)(nil)
