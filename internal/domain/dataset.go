package domain

import "time"

// Coordinate is one set-point array of a swept axis. For 2D scans the
// outer (step) axis comes first and the inner (sweep) axis last.
type Coordinate struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// MeasuredArray holds the acquired values of one read channel, stored
// row-major over the coordinate grid.
type MeasuredArray struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Dataset is the labeled output record of one scan: coordinates,
// measured arrays, merged metadata, and the unique storage location
// assigned by the dataset store.
type Dataset struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	ScanType  ScanType        `json:"scantype"`
	Location  string          `json:"location"`
	Coords    []Coordinate    `json:"coords"`
	Arrays    []MeasuredArray `json:"arrays"`
	Metadata  map[string]any  `json:"metadata"`
	Completed time.Time       `json:"completed"`
}

// Array returns the measured array with the given name, or nil.
func (d *Dataset) Array(name string) *MeasuredArray {
	for i := range d.Arrays {
		if d.Arrays[i].Name == name {
			return &d.Arrays[i]
		}
	}
	return nil
}

// AcquisitionResult carries the raw sample arrays of one triggered
// segment, one slice per requested channel. An empty result is a
// distinct, detectable state rather than an error; callers decide
// whether to retry or abort.
type AcquisitionResult struct {
	Channels [][]float64
}

// Empty reports whether no valid samples were acquired on any channel.
func (r AcquisitionResult) Empty() bool {
	for _, ch := range r.Channels {
		if len(ch) > 0 {
			return false
		}
	}
	return true
}
