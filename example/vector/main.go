package main

import (
	"fmt"
	"log"

	"github.com/VandersypenQutech/qtt"
)

// Scans a 2D plane of virtual axes: the inner detuning axis moves P1
// and P2 in opposite directions while the outer common-mode axis moves
// them together, with SD1 read out at every point.
func main() {
	cfg := &qtt.Config{
		Station: qtt.StationConfig{
			DACChannels: 8,
			Gates:       map[string]int{"P1": 1, "P2": 2, "SD1": 3},
			Boundaries:  map[string][2]float64{"P1": {-500, 500}, "P2": {-500, 500}},
		},
		Storage: qtt.StorageConfig{Backend: "memory"},
	}

	lab, err := qtt.NewLab(cfg)
	if err != nil {
		log.Fatalf("new lab: %v", err)
	}

	readout, err := lab.Station().Gates.Gate("SD1")
	if err != nil {
		log.Fatalf("resolve readout gate: %v", err)
	}

	detuning := qtt.ParamVector{Terms: []qtt.VectorTerm{
		{Gate: "P1", Coeff: 1, Offset: -50},
		{Gate: "P2", Coeff: -1, Offset: 30},
	}}
	commonMode := qtt.ParamVector{Terms: []qtt.VectorTerm{
		{Gate: "P1", Coeff: 1},
		{Gate: "P2", Coeff: 1},
	}}

	job := &qtt.ScanJob{
		ScanType:           qtt.Scan2D,
		Sweep:              qtt.AxisSpec{Param: detuning, Start: -20, End: 20, Step: 0.5},
		Step:               &qtt.AxisSpec{Param: commonMode, Start: -10, End: 10, Step: 2},
		MeasureInstruments: []qtt.Parameter{readout},
		DatasetLabel:       "detuning_plane",
	}

	ds, err := lab.Scan2D(job, map[string]any{"sample": "demo_device"})
	if err != nil {
		log.Fatalf("scan: %v", err)
	}

	fmt.Printf("dataset %s: %d x %d points on (%s, %s)\n",
		ds.Location,
		len(ds.Coords[0].Values), len(ds.Coords[1].Values),
		ds.Coords[0].Name, ds.Coords[1].Name)
}
