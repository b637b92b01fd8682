package main

import (
	"fmt"
	"log"
	"time"

	"github.com/VandersypenQutech/qtt"
	"github.com/VandersypenQutech/qtt/internal/adapters/awg"
)

func main() {
	cfg := &qtt.Config{
		Station: qtt.StationConfig{
			DACChannels: 8,
			Gates:       map[string]int{"P1": 1},
			SampleRate:  1e6,
		},
		Storage: qtt.StorageConfig{Backend: "memory"},
	}

	gen, err := awg.NewSoftware(1e6)
	if err != nil {
		log.Fatalf("new generator: %v", err)
	}

	lab, err := qtt.NewLab(cfg, qtt.WithWaveformGenerator(gen))
	if err != nil {
		log.Fatalf("new lab: %v", err)
	}

	job := &qtt.ScanJob{
		Sweep: qtt.AxisSpec{
			Param:  qtt.ParamGate{Gate: "P1"},
			Start:  0,
			Range:  40,
			Step:   0.5,
			Period: 500 * time.Microsecond,
		},
		MeasureChannels: []int{0, 1},
		DatasetLabel:    "fast_sweep",
	}

	ds, ok, err := lab.FastScan(job)
	if err != nil {
		log.Fatalf("fast scan: %v", err)
	}
	if !ok {
		log.Fatal("station declined the fast path")
	}

	fmt.Printf("dataset %s: %d triggered points, %d channels\n",
		ds.Location, len(ds.Coords[0].Values), len(ds.Arrays))
}
