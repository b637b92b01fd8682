package digitizer

import (
	"errors"
	"testing"
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

func TestSimulationRejectsBadSampleRate(t *testing.T) {
	if _, err := NewSimulation("sim", 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewSimulation("sim", -1e6); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestSimulationSegmentIsDeterministic(t *testing.T) {
	sim, err := NewSimulation("sim", 1e6)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}

	wf := domain.Waveform{Gate: "P1", SweepRange: 20, Period: time.Millisecond, Samples: 64}

	first, err := sim.SimulateSegment(wf, []int{0, 1})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	second, err := sim.SimulateSegment(wf, []int{0, 1})
	if err != nil {
		t.Fatalf("simulate again: %v", err)
	}

	if len(first.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(first.Channels))
	}
	for ch := range first.Channels {
		if len(first.Channels[ch]) != wf.Samples {
			t.Fatalf("channel %d: expected %d samples, got %d", ch, wf.Samples, len(first.Channels[ch]))
		}
		for i := range first.Channels[ch] {
			if first.Channels[ch][i] != second.Channels[ch][i] {
				t.Fatalf("channel %d sample %d differs between runs", ch, i)
			}
		}
	}

	// Channel index shifts the trace by a fixed offset.
	if got := first.Channels[1][0] - first.Channels[0][0]; got != 0.1 {
		t.Fatalf("expected channel offset 0.1, got %g", got)
	}
}

func TestSimulationRejectsEmptyWaveform(t *testing.T) {
	sim, _ := NewSimulation("sim", 1e6)
	if _, err := sim.SimulateSegment(domain.Waveform{}, []int{0}); err == nil {
		t.Fatal("expected error for waveform without samples")
	}
}

type fakeCard struct {
	rate       float64
	segments   [][]float64
	err        error
	pretrigger int
	averages   int
	process    bool
}

func (c *fakeCard) SampleRate() (float64, error) { return c.rate, nil }

func (c *fakeCard) AcquireSegment(wf domain.Waveform, channels []int, pretrigger, averages int, process bool) ([][]float64, error) {
	c.pretrigger, c.averages, c.process = pretrigger, averages, process
	if c.err != nil {
		return nil, c.err
	}
	return c.segments, nil
}

func TestSpectrumForwardsAcquisitionSettings(t *testing.T) {
	card := &fakeCard{rate: 2e6, segments: [][]float64{{1, 2, 3}}}
	dig, err := NewSpectrum("m4i", card)
	if err != nil {
		t.Fatalf("new spectrum: %v", err)
	}

	wf := domain.Waveform{Gate: "P1", Samples: 3}
	res, err := dig.MeasureSegment(wf, []int{0}, 2000, 4, true)
	if err != nil {
		t.Fatalf("measure segment: %v", err)
	}

	if card.pretrigger != 2000 || card.averages != 4 || !card.process {
		t.Fatalf("card saw pretrigger=%d averages=%d process=%v", card.pretrigger, card.averages, card.process)
	}
	if len(res.Channels) != 1 || len(res.Channels[0]) != 3 {
		t.Fatalf("unexpected result shape: %+v", res.Channels)
	}

	rate, err := dig.SampleRate()
	if err != nil {
		t.Fatalf("sample rate: %v", err)
	}
	if rate != 2e6 {
		t.Fatalf("expected rate 2e6, got %g", rate)
	}
}

func TestSpectrumWrapsCardError(t *testing.T) {
	cardErr := errors.New("trigger timeout")
	dig, _ := NewSpectrum("m4i", &fakeCard{rate: 1e6, err: cardErr})

	_, err := dig.MeasureSegment(domain.Waveform{Samples: 8}, []int{0}, 0, 1, false)
	if !errors.Is(err, cardErr) {
		t.Fatalf("expected wrapped card error, got %v", err)
	}
}

func TestSpectrumRequiresCard(t *testing.T) {
	if _, err := NewSpectrum("m4i", nil); err == nil {
		t.Fatal("expected error for nil card")
	}
}
