package domain

import (
	"errors"
	"fmt"
	"time"
)

// ScanType selects the execution strategy for a scan job.
type ScanType string

const (
	Scan1D     ScanType = "scan1D"
	Scan2D     ScanType = "scan2D"
	Scan1DFast ScanType = "scan1Dfast"
	Scan2DFast ScanType = "scan2Dfast"
)

// Errors reported during scan-job validation.
var (
	ErrMissingSweep    = errors.New("scanjob: sweep axis is required")
	ErrMissingStep     = errors.New("scanjob: step axis is required for 2D scans")
	ErrUnknownScanType = errors.New("scanjob: unknown scan type")
)

// ScanJob aggregates everything one scan invocation needs: the swept
// axis, an optional stepped outer axis, the read channels, acquisition
// parameters, and free-form metadata. A job is consumed by a single
// scan call; the planner may rewrite the sweep axis in place (its End
// is adjusted when an external trigger count is imposed) and jobs must
// not be shared between concurrent scans.
type ScanJob struct {
	ScanType ScanType
	Sweep    AxisSpec
	Step     *AxisSpec

	// MeasureInstruments lists the read channels in acquisition order
	// for slow scans.
	MeasureInstruments []Parameter
	// MeasureChannels lists the digitizer channels read during
	// hardware-triggered scans.
	MeasureChannels []int
	// MeasurementHandle names the acquisition device on the station.
	MeasurementHandle string

	NAverage          int
	WaitTimeStartScan time.Duration
	DatasetLabel      string
	Metadata          map[string]any
}

// Is2D reports whether the job needs a stepped outer axis.
func (j *ScanJob) Is2D() bool {
	return j.ScanType == Scan2D || j.ScanType == Scan2DFast
}

// IsFast reports whether the job uses hardware-triggered acquisition.
func (j *ScanJob) IsFast() bool {
	return j.ScanType == Scan1DFast || j.ScanType == Scan2DFast
}

// Validate checks required-field presence up front, before any
// instrument is touched.
func (j *ScanJob) Validate() error {
	switch j.ScanType {
	case Scan1D, Scan2D, Scan1DFast, Scan2DFast, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScanType, j.ScanType)
	}
	if j.Sweep.Param == nil {
		return ErrMissingSweep
	}
	if j.Is2D() && j.Step == nil {
		return ErrMissingStep
	}
	return nil
}

// EffectiveLabel returns the record label used for dataset naming:
// the caller-supplied label if present, else a scan-type default.
func (j *ScanJob) EffectiveLabel() string {
	if j.DatasetLabel != "" {
		return j.DatasetLabel
	}
	if j.ScanType != "" {
		return string(j.ScanType)
	}
	return string(Scan1D)
}
