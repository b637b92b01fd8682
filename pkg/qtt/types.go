package qtt

import (
	"github.com/VandersypenQutech/qtt/internal/app/station"
	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// Dataset is the record a scan produces: coordinates, measured arrays,
// and merged metadata. It mirrors internal/domain.Dataset but is
// exported so callers can consume scan results directly.
type Dataset = domain.Dataset

// Coordinate is one axis of set-point values in a dataset.
type Coordinate = domain.Coordinate

// MeasuredArray is one measured channel of a dataset.
type MeasuredArray = domain.MeasuredArray

// AcquisitionResult is a raw per-channel block from a digitizer.
type AcquisitionResult = domain.AcquisitionResult

// ScanJob aggregates everything one scan invocation needs.
type ScanJob = domain.ScanJob

// ScanType selects the execution strategy for a scan job.
type ScanType = domain.ScanType

// Scan type values.
const (
	Scan1D     = domain.Scan1D
	Scan2D     = domain.Scan2D
	Scan1DFast = domain.Scan1DFast
	Scan2DFast = domain.Scan2DFast
)

// AxisSpec describes one scan axis.
type AxisSpec = domain.AxisSpec

// AxisParam describes which knob a scan axis moves.
type AxisParam = domain.AxisParam

type (
	// ParamHandle wraps a parameter the caller already resolved.
	ParamHandle = domain.ParamHandle
	// ParamNamed names a parameter on a registered instrument.
	ParamNamed = domain.ParamNamed
	// ParamOn names a parameter on an instrument handle the caller owns.
	ParamOn = domain.ParamOn
	// ParamGate names a logical gate resolved against the gate set.
	ParamGate = domain.ParamGate
	// ParamVector advances several channels proportionally.
	ParamVector = domain.ParamVector
	// VectorTerm is one physical channel of a vector axis.
	VectorTerm = domain.VectorTerm
)

// ParseParamRef turns a textual axis reference into an AxisParam.
func ParseParamRef(s string) AxisParam { return domain.ParseParamRef(s) }

// Parameter is a settable/gettable instrument knob.
type Parameter = domain.Parameter

// Instrument is a named component exposing parameters.
type Instrument = domain.Instrument

// Waveform describes one programmed sweep period.
type Waveform = domain.Waveform

// SampleData carries per-sample settings such as gate boundaries.
type SampleData = domain.SampleData

// GateBoundary is the allowed [Min, Max] window for one gate.
type GateBoundary = domain.GateBoundary

// Station aggregates the instruments of one measurement setup.
type Station = station.Station

// Registry tracks the instruments a station owns.
type Registry = ports.Registry

// GateSet resolves bare gate names to parameters.
type GateSet = ports.GateSet

// DatasetStore persists datasets and assigns their storage location.
type DatasetStore = ports.DatasetStore

// Digitizer is any acquisition device a station can carry.
type Digitizer = ports.Digitizer

// SegmentDigitizer acquires hardware-triggered segments.
type SegmentDigitizer = ports.SegmentDigitizer

// SimulationDigitizer produces synthetic segments in software.
type SimulationDigitizer = ports.SimulationDigitizer

// WaveformGenerator drives an axis during fast scans.
type WaveformGenerator = ports.WaveformGenerator

// LivePlotter receives incremental updates while a scan runs.
type LivePlotter = ports.LivePlotter

// Observability emits metrics/logs about scan progress and storage.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field
