package qtt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VandersypenQutech/qtt/internal/adapters/digitizer"
	"github.com/VandersypenQutech/qtt/internal/adapters/observability"
	"github.com/VandersypenQutech/qtt/internal/adapters/opcua"
	"github.com/VandersypenQutech/qtt/internal/adapters/registry"
	"github.com/VandersypenQutech/qtt/internal/adapters/storage"
	"github.com/VandersypenQutech/qtt/internal/adapters/virtual"
	"github.com/VandersypenQutech/qtt/internal/app/scan"
	"github.com/VandersypenQutech/qtt/internal/app/station"
)

// LabOption customizes the dependencies used by Lab.
type LabOption func(*labOverrides)

type labOverrides struct {
	store     DatasetStore
	obs       Observability
	digitizer Digitizer
	awg       WaveformGenerator
	plotter   LivePlotter
	registry  Registry
}

// WithDatasetStore injects a custom dataset store so scans can persist
// to any backend.
func WithDatasetStore(s DatasetStore) LabOption {
	return func(o *labOverrides) {
		o.store = s
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) LabOption {
	return func(o *labOverrides) {
		o.obs = obs
	}
}

// WithDigitizer injects the acquisition device (real hardware drivers,
// simulators, fakes).
func WithDigitizer(d Digitizer) LabOption {
	return func(o *labOverrides) {
		o.digitizer = d
	}
}

// WithWaveformGenerator attaches a waveform generator, enabling the
// hardware-triggered fast scan path.
func WithWaveformGenerator(g WaveformGenerator) LabOption {
	return func(o *labOverrides) {
		o.awg = g
	}
}

// WithLivePlotter attaches a plotter that receives incremental dataset
// updates while scans run.
func WithLivePlotter(p LivePlotter) LabOption {
	return func(o *labOverrides) {
		o.plotter = p
	}
}

// WithRegistry lets callers bring their own instrument registry or
// reuse an existing instance.
func WithRegistry(r Registry) LabOption {
	return func(o *labOverrides) {
		o.registry = r
	}
}

// Lab wires a station, a scan engine, and a dataset store into one
// measurement session, with lifecycle hooks for embedding inside any
// Go service.
type Lab struct {
	cfg         *Config
	station     *station.Station
	engine      *scan.Engine
	obs         Observability
	dac         *virtual.VirtualDAC
	gates       *virtual.VirtualGates
	rack        *opcua.Instrument
	db          *sql.DB
	metricsSrv  *http.Server
	gaugeStopCh chan struct{}
}

// NewLab bootstraps the default adapters (virtual DAC and gates,
// simulation digitizer, disk store, Prometheus observability). Callers
// can use LabOption values to override any dependency and point the
// session at real hardware, custom stores, or telemetry backends.
func NewLab(cfg *Config, opts ...LabOption) (*Lab, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides labOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.obs
	if obs == nil {
		obs = observability.NewPromObs(prometheus.DefaultRegisterer)
	}

	reg := overrides.registry
	if reg == nil {
		reg = registry.NewMemRegistry()
	}

	dac, err := virtual.NewVirtualDAC(reg, "dac", cfg.Station.DACChannels)
	if err != nil {
		return nil, err
	}

	st := station.New(reg)
	st.AWG = overrides.awg

	var gates *virtual.VirtualGates
	if len(cfg.Station.Gates) > 0 {
		gateMap := make(map[string]virtual.GateRef, len(cfg.Station.Gates))
		for gate, ch := range cfg.Station.Gates {
			gateMap[gate] = virtual.GateRef{
				Instrument: dac.Name(),
				Channel:    fmt.Sprintf("dac%d", ch),
			}
		}
		gates, err = virtual.NewVirtualGates(reg, "gates", gateMap)
		if err != nil {
			return nil, err
		}
		st.Gates = gates
	}

	if len(cfg.Station.Boundaries) > 0 {
		boundaries := make(map[string]GateBoundary, len(cfg.Station.Boundaries))
		for gate, b := range cfg.Station.Boundaries {
			boundaries[gate] = GateBoundary{Min: b[0], Max: b[1]}
		}
		st.SampleData = SampleData{GateBoundaries: boundaries}
	}

	dig := overrides.digitizer
	if dig == nil {
		dig, err = digitizer.NewSimulation("sim", cfg.Station.SampleRate)
		if err != nil {
			return nil, err
		}
	}
	st.Digitizer = dig

	var rack *opcua.Instrument
	if cfg.OPCUA.Endpoint != "" {
		rack, err = opcua.NewInstrument(reg, cfg.OPCUA)
		if err != nil {
			return nil, err
		}
	}

	var (
		db    *sql.DB
		store DatasetStore
	)
	if overrides.store != nil {
		store = overrides.store
	} else {
		switch cfg.Storage.Backend {
		case "postgres":
			db, err = sql.Open("postgres", cfg.Storage.ConnString)
			if err != nil {
				return nil, err
			}
			store = storage.NewSQLStore(db, cfg.Storage.Table)
		case "memory":
			store = storage.NewMemStore()
		default:
			store, err = storage.NewDiskStore(cfg.Storage.Dir)
			if err != nil {
				return nil, err
			}
		}
	}
	if store == nil {
		return nil, fmt.Errorf("dataset store is nil")
	}

	return &Lab{
		cfg:     cfg,
		station: st,
		engine:  scan.NewEngine(store, obs, overrides.plotter),
		obs:     obs,
		dac:     dac,
		gates:   gates,
		rack:    rack,
		db:      db,
	}, nil
}

// Open loads YAML from disk and bootstraps a Lab in one call.
func Open(path string, opts ...LabOption) (*Lab, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewLab(cfg, opts...)
}

// Station exposes the underlying station so callers can attach
// additional instruments before scanning.
func (l *Lab) Station() *Station {
	if l == nil {
		return nil
	}
	return l.station
}

// Scan1D sweeps one axis point by point.
func (l *Lab) Scan1D(job *ScanJob, extra map[string]any) (*Dataset, error) {
	l.applyScanDefaults(job)
	return l.engine.Scan1D(l.station, job, extra)
}

// Scan2D steps the outer axis while sweeping the inner one.
func (l *Lab) Scan2D(job *ScanJob, extra map[string]any) (*Dataset, error) {
	l.applyScanDefaults(job)
	return l.engine.Scan2D(l.station, job, extra)
}

// Scan1DFast acquires the sweep in one hardware-triggered block,
// degrading to the slow path when the station has no waveform
// generator.
func (l *Lab) Scan1DFast(job *ScanJob, extra map[string]any) (*Dataset, error) {
	l.applyScanDefaults(job)
	return l.engine.Scan1DFast(l.station, job, extra)
}

// Scan2DFast steps the outer axis and acquires the inner sweep as one
// triggered block per step value.
func (l *Lab) Scan2DFast(job *ScanJob, extra map[string]any) (*Dataset, error) {
	l.applyScanDefaults(job)
	return l.engine.Scan2DFast(l.station, job, extra)
}

// FastScan runs a hardware-triggered sweep when the station has a
// waveform generator; the second return value reports whether the fast
// path was taken.
func (l *Lab) FastScan(job *ScanJob) (*Dataset, bool, error) {
	l.applyScanDefaults(job)
	return l.engine.FastScan(l.station, job)
}

func (l *Lab) applyScanDefaults(job *ScanJob) {
	if job == nil {
		return
	}
	if job.NAverage == 0 {
		job.NAverage = l.cfg.Scan.NAverage
	}
	if job.WaitTimeStartScan == 0 {
		job.WaitTimeStartScan = l.cfg.Scan.WaitTime
	}
	if job.Sweep.Period == 0 {
		job.Sweep.Period = l.cfg.Scan.SweepPeriod
	}
}

// Start connects configured rack hardware and launches the metrics
// endpoint. It returns immediately; call Run to block on a context
// instead.
func (l *Lab) Start(ctx context.Context) error {
	if l == nil {
		return fmt.Errorf("lab is nil")
	}
	if l.rack != nil {
		if err := l.rack.Connect(ctx); err != nil {
			return err
		}
	}
	l.startMetrics()
	return nil
}

// Run starts the lab and blocks until the provided context is
// cancelled, then attempts a graceful shutdown.
func (l *Lab) Run(ctx context.Context) error {
	if err := l.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return l.Shutdown(shutdownCtx)
}

// Shutdown stops the metrics server and releases every instrument the
// lab created.
func (l *Lab) Shutdown(ctx context.Context) error {
	var errs []error

	if l.gaugeStopCh != nil {
		close(l.gaugeStopCh)
		l.gaugeStopCh = nil
	}

	if l.metricsSrv != nil {
		if err := l.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if l.rack != nil {
		if err := l.rack.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if l.gates != nil {
		if err := l.gates.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if l.dac != nil {
		if err := l.dac.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if l.db != nil {
		if err := l.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (l *Lab) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	l.metricsSrv = &http.Server{
		Addr:    l.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := l.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	l.gaugeStopCh = make(chan struct{})
	go l.recordStationGauges(l.gaugeStopCh, time.Second)
}

func (l *Lab) recordStationGauges(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if l.station.Registry != nil {
				l.obs.SetGauge("qtt_station_components", float64(len(l.station.Registry.Components())))
			}
		}
	}
}
