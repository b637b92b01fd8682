package main

import (
	"fmt"
	"log"

	"github.com/VandersypenQutech/qtt"
)

func main() {
	cfg := &qtt.Config{
		Station: qtt.StationConfig{
			DACChannels: 8,
			Gates:       map[string]int{"P1": 1, "P2": 2, "SD1": 3},
		},
		Storage: qtt.StorageConfig{Backend: "memory"},
	}

	lab, err := qtt.NewLab(cfg)
	if err != nil {
		log.Fatalf("new lab: %v", err)
	}

	st := lab.Station()
	readout, err := st.Gates.Gate("SD1")
	if err != nil {
		log.Fatalf("resolve readout gate: %v", err)
	}

	job := &qtt.ScanJob{
		Sweep:              qtt.AxisSpec{Param: qtt.ParamGate{Gate: "P1"}, Start: -100, End: 100, Step: 2.5},
		MeasureInstruments: []qtt.Parameter{readout},
		DatasetLabel:       "gate_sweep",
	}

	ds, err := lab.Scan1D(job, nil)
	if err != nil {
		log.Fatalf("scan: %v", err)
	}

	fmt.Printf("dataset %s: %d points on %s\n",
		ds.Location, len(ds.Coords[0].Values), ds.Coords[0].Name)
}
