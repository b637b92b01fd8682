package qtt

import (
	"context"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		Station: StationConfig{
			DACChannels: 4,
			Gates:       map[string]int{"P1": 1, "P2": 2},
			SampleRate:  1e6,
		},
		Storage: StorageConfig{Backend: "memory"},
		Metrics: MetricsConfig{Addr: ":0"},
		Scan:    ScanConfig{NAverage: 1, SweepPeriod: time.Millisecond},
	}
}

func TestNewLabWithCustomAdapters(t *testing.T) {
	storeStub := &stubStore{}
	obsStub := &stubObs{}
	digStub := &stubDigitizer{}
	awgStub := &stubAWG{}
	plotStub := &stubPlotter{}

	lab, err := NewLab(
		testConfig(),
		WithDatasetStore(storeStub),
		WithObservability(obsStub),
		WithDigitizer(digStub),
		WithWaveformGenerator(awgStub),
		WithLivePlotter(plotStub),
	)
	if err != nil {
		t.Fatalf("NewLab returned error: %v", err)
	}
	defer func() {
		if err := lab.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()

	st := lab.Station()
	if st.Digitizer != digStub {
		t.Fatalf("expected custom digitizer to be used")
	}
	if st.AWG != awgStub {
		t.Fatalf("expected custom waveform generator to be used")
	}
	if lab.db != nil {
		t.Fatalf("expected db to be nil when custom store is provided")
	}

	job := &ScanJob{
		Sweep: AxisSpec{Param: ParamGate{Gate: "P1"}, Start: 0, End: 10, Step: 2},
	}
	ds, err := lab.Scan1D(job, nil)
	if err != nil {
		t.Fatalf("Scan1D returned error: %v", err)
	}
	if storeStub.writes != 1 {
		t.Fatalf("expected one dataset write, got %d", storeStub.writes)
	}
	if plotStub.updates == 0 {
		t.Fatalf("expected live plotter to receive updates")
	}
	if ds.Location != "#1_scan1D" {
		t.Fatalf("unexpected dataset location %q", ds.Location)
	}
}

func TestNewLabDefaultsAndGateScan(t *testing.T) {
	cfg := testConfig()
	cfg.Station.Boundaries = map[string][2]float64{"P1": {-500, 500}}

	lab, err := NewLab(cfg)
	if err != nil {
		t.Fatalf("NewLab returned error: %v", err)
	}
	defer func() {
		if err := lab.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()

	st := lab.Station()
	if st.Gates == nil {
		t.Fatalf("expected gate set to be wired")
	}
	if got := st.SampleData.RestrictBoundaries("P1", 900); got != 500 {
		t.Fatalf("expected boundary clamp to 500, got %g", got)
	}
	if len(st.Registry.Components()) != 2 {
		t.Fatalf("expected dac and gates registered, got %d components", len(st.Registry.Components()))
	}

	gate, err := st.Gates.Gate("P2")
	if err != nil {
		t.Fatalf("resolve gate: %v", err)
	}
	job := &ScanJob{
		Sweep:              AxisSpec{Param: ParamGate{Gate: "P1"}, Start: -2, End: 2, Step: 1},
		MeasureInstruments: []Parameter{gate},
	}
	ds, err := lab.Scan1D(job, nil)
	if err != nil {
		t.Fatalf("Scan1D returned error: %v", err)
	}
	if len(ds.Arrays) != 1 || len(ds.Arrays[0].Values) != len(ds.Coords[0].Values) {
		t.Fatalf("expected one reading per set-point")
	}
	if job.NAverage != 1 {
		t.Fatalf("expected scan defaults applied, NAverage=%d", job.NAverage)
	}
}

func TestFastScanWithoutGeneratorDeclines(t *testing.T) {
	lab, err := NewLab(testConfig(), WithObservability(&stubObs{}))
	if err != nil {
		t.Fatalf("NewLab returned error: %v", err)
	}
	defer func() {
		if err := lab.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()

	job := &ScanJob{
		Sweep: AxisSpec{Param: ParamGate{Gate: "P1"}, Start: 0, End: 1, Step: 0.1},
	}
	ds, ok, err := lab.FastScan(job)
	if err != nil {
		t.Fatalf("FastScan returned error: %v", err)
	}
	if ok || ds != nil {
		t.Fatalf("expected fast scan to decline without a waveform generator")
	}
}

type stubStore struct {
	writes int
}

func (s *stubStore) Write(ds *Dataset) (string, error) {
	s.writes++
	return "#1_" + ds.Label, nil
}

func (s *stubStore) Name() string { return "stub" }

type stubObs struct{}

func (s *stubObs) LogInfo(string, ...Field)         {}
func (s *stubObs) LogWarn(string, ...Field)         {}
func (s *stubObs) LogError(string, error, ...Field) {}
func (s *stubObs) IncCounter(string, float64)       {}
func (s *stubObs) ObserveLatency(string, float64)   {}
func (s *stubObs) SetGauge(string, float64)         {}

type stubDigitizer struct{}

func (s *stubDigitizer) Name() string                 { return "stub" }
func (s *stubDigitizer) SampleRate() (float64, error) { return 1e6, nil }

type stubAWG struct{}

func (s *stubAWG) SweepGate(gate string, sweepRange float64, period time.Duration) (Waveform, error) {
	return Waveform{Gate: gate, SweepRange: sweepRange, Period: period, Samples: 16}, nil
}

func (s *stubAWG) Stop() error { return nil }

type stubPlotter struct {
	updates int
}

func (s *stubPlotter) Update(*Dataset) { s.updates++ }
