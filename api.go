package qtt

import (
	base "github.com/VandersypenQutech/qtt/pkg/qtt"
)

// Type aliases so consumers can import github.com/VandersypenQutech/qtt directly.
type (
	Config              = base.Config
	StationConfig       = base.StationConfig
	StorageConfig       = base.StorageConfig
	MetricsConfig       = base.MetricsConfig
	ScanConfig          = base.ScanConfig
	OPCUAConfig         = base.OPCUAConfig
	OPCUANodeConfig     = base.OPCUANodeConfig
	Lab                 = base.Lab
	LabOption           = base.LabOption
	Station             = base.Station
	Dataset             = base.Dataset
	Coordinate          = base.Coordinate
	MeasuredArray       = base.MeasuredArray
	AcquisitionResult   = base.AcquisitionResult
	ScanJob             = base.ScanJob
	ScanType            = base.ScanType
	AxisSpec            = base.AxisSpec
	AxisParam           = base.AxisParam
	ParamHandle         = base.ParamHandle
	ParamNamed          = base.ParamNamed
	ParamOn             = base.ParamOn
	ParamGate           = base.ParamGate
	ParamVector         = base.ParamVector
	VectorTerm          = base.VectorTerm
	Parameter           = base.Parameter
	Instrument          = base.Instrument
	Waveform            = base.Waveform
	SampleData          = base.SampleData
	GateBoundary        = base.GateBoundary
	Registry            = base.Registry
	GateSet             = base.GateSet
	DatasetStore        = base.DatasetStore
	Digitizer           = base.Digitizer
	SegmentDigitizer    = base.SegmentDigitizer
	SimulationDigitizer = base.SimulationDigitizer
	WaveformGenerator   = base.WaveformGenerator
	LivePlotter         = base.LivePlotter
	DatasetFunc         = base.DatasetFunc
	Observability       = base.Observability
	Field               = base.Field
)

// Scan type values.
const (
	Scan1D     = base.Scan1D
	Scan2D     = base.Scan2D
	Scan1DFast = base.Scan1DFast
	Scan2DFast = base.Scan2DFast
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Lab construction.
func NewLab(cfg *Config, opts ...LabOption) (*Lab, error) {
	return base.NewLab(cfg, opts...)
}

func Open(path string, opts ...LabOption) (*Lab, error) {
	return base.Open(path, opts...)
}

// Lab options.
func WithDatasetStore(s DatasetStore) LabOption {
	return base.WithDatasetStore(s)
}

func WithObservability(obs Observability) LabOption {
	return base.WithObservability(obs)
}

func WithDigitizer(d Digitizer) LabOption {
	return base.WithDigitizer(d)
}

func WithWaveformGenerator(g WaveformGenerator) LabOption {
	return base.WithWaveformGenerator(g)
}

func WithLivePlotter(p LivePlotter) LabOption {
	return base.WithLivePlotter(p)
}

func WithRegistry(r Registry) LabOption {
	return base.WithRegistry(r)
}

// Axis references.
func ParseParamRef(s string) AxisParam {
	return base.ParseParamRef(s)
}

// Plot adapters.
func NewCallbackPlotter(fn DatasetFunc) LivePlotter {
	return base.NewCallbackPlotter(fn)
}

func NewChannelPlotter(buffer int) (LivePlotter, <-chan *Dataset, func()) {
	return base.NewChannelPlotter(buffer)
}
