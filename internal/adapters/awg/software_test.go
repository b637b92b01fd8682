package awg

import (
	"testing"
	"time"
)

func TestNewSoftwareRejectsBadSampleRate(t *testing.T) {
	if _, err := NewSoftware(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestSweepGateDerivesSampleCount(t *testing.T) {
	gen, err := NewSoftware(1e6)
	if err != nil {
		t.Fatalf("new software awg: %v", err)
	}

	wf, err := gen.SweepGate("P1", 40, time.Millisecond)
	if err != nil {
		t.Fatalf("sweep gate: %v", err)
	}

	if wf.Gate != "P1" || wf.SweepRange != 40 || wf.Period != time.Millisecond {
		t.Fatalf("unexpected waveform: %+v", wf)
	}
	// 1 ms at 1 MHz is 1000 samples per period.
	if wf.Samples != 1000 {
		t.Fatalf("expected 1000 samples, got %d", wf.Samples)
	}
	if !gen.Running() {
		t.Fatal("expected generator to be running after SweepGate")
	}
}

func TestSweepGateRejectsNonPositivePeriod(t *testing.T) {
	gen, _ := NewSoftware(1e6)
	if _, err := gen.SweepGate("P1", 40, 0); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestStopClearsRunning(t *testing.T) {
	gen, _ := NewSoftware(1e6)
	if _, err := gen.SweepGate("P1", 10, 500*time.Microsecond); err != nil {
		t.Fatalf("sweep gate: %v", err)
	}
	if err := gen.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if gen.Running() {
		t.Fatal("expected generator stopped")
	}
}
