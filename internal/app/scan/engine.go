package scan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VandersypenQutech/qtt/internal/app/station"
	"github.com/VandersypenQutech/qtt/internal/app/sweep"
	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

var (
	ErrNoDatasetStore = errors.New("scan: no dataset store configured")
	// ErrUnsupportedAxisMix is returned when a 2D scan combines a
	// vector axis with a scalar axis; the planner cannot reconcile the
	// two shapes and refusing beats silently mis-sweeping.
	ErrUnsupportedAxisMix = errors.New("scan: cannot combine vector and scalar axes in a 2D scan")
	// ErrLabelLost means the store violated its contract of keeping
	// the dataset label inside the assigned location.
	ErrLabelLost = errors.New("scan: dataset location does not carry the record label")
)

// Engine executes scan jobs synchronously on the calling goroutine:
// every set, wait, and read blocks until the instrument responds. One
// engine may run many scans, but never two at once on the same
// station.
type Engine struct {
	store ports.DatasetStore
	obs   ports.Observability
	plot  ports.LivePlotter
}

// NewEngine wires an engine. The store is required for dataset
// locations; obs may be nil for silent operation and plot may be nil
// to run headless.
func NewEngine(store ports.DatasetStore, obs ports.Observability, plot ports.LivePlotter) *Engine {
	if obs == nil {
		obs = nopObs{}
	}
	return &Engine{store: store, obs: obs, plot: plot}
}

// Scan1D sweeps one axis point by point, reading every configured
// measurement instrument at each set-point.
func (e *Engine) Scan1D(st *station.Station, job *domain.ScanJob, extra map[string]any) (*domain.Dataset, error) {
	if job.ScanType == "" {
		job.ScanType = domain.Scan1D
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	param, err := NewResolver(st).Resolve(job.Sweep.Param)
	if err != nil {
		return nil, err
	}
	values, revised, err := sweep.Plan(job.Sweep, 0)
	if err != nil {
		return nil, err
	}
	job.Sweep = revised

	done := e.begin()
	defer done()
	time.Sleep(job.WaitTimeStartScan)

	ds := e.newShell(job, []domain.Coordinate{{Name: param.Name(), Values: values}}, readerNames(job.MeasureInstruments))
	for _, v := range values {
		if err := e.setPoint(param, v, job.Sweep.Wait); err != nil {
			return nil, err
		}
		if err := e.readPoint(job.MeasureInstruments, ds); err != nil {
			return nil, err
		}
		if e.plot != nil {
			e.plot.Update(ds)
		}
	}

	return e.finish(st, job, ds, extra)
}

// Scan2D holds the outer step axis fixed while sweeping the inner axis,
// once per step value.
func (e *Engine) Scan2D(st *station.Station, job *domain.ScanJob, extra map[string]any) (*domain.Dataset, error) {
	if job.ScanType == "" {
		job.ScanType = domain.Scan2D
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if isVector(job.Sweep.Param) != isVector(job.Step.Param) {
		return nil, fmt.Errorf("%w: sweep=%s step=%s", ErrUnsupportedAxisMix, job.Sweep.Param, job.Step.Param)
	}

	resolver := NewResolver(st)
	sweepParam, err := resolver.Resolve(job.Sweep.Param)
	if err != nil {
		return nil, err
	}
	stepParam, err := resolver.Resolve(job.Step.Param)
	if err != nil {
		return nil, err
	}

	stepValues, revisedStep, sweepValues, revisedSweep, err := sweep.Plan2D(*job.Step, job.Sweep, 0, 0)
	if err != nil {
		return nil, err
	}
	job.Sweep = revisedSweep
	*job.Step = revisedStep

	done := e.begin()
	defer done()
	time.Sleep(job.WaitTimeStartScan)

	coords := []domain.Coordinate{
		{Name: stepParam.Name(), Values: stepValues},
		{Name: sweepParam.Name(), Values: sweepValues},
	}
	ds := e.newShell(job, coords, readerNames(job.MeasureInstruments))
	for _, sv := range stepValues {
		if err := e.setPoint(stepParam, sv, job.Step.Wait); err != nil {
			return nil, err
		}
		for _, v := range sweepValues {
			if err := e.setPoint(sweepParam, v, job.Sweep.Wait); err != nil {
				return nil, err
			}
			if err := e.readPoint(job.MeasureInstruments, ds); err != nil {
				return nil, err
			}
		}
		if e.plot != nil {
			e.plot.Update(ds)
		}
	}

	return e.finish(st, job, ds, extra)
}

// setPoint moves one axis and blocks for its settle time.
func (e *Engine) setPoint(param domain.Parameter, v float64, wait time.Duration) error {
	if err := param.Set(v); err != nil {
		return fmt.Errorf("scan: set %s to %g: %w", param.Name(), v, err)
	}
	if wait > 0 {
		time.Sleep(wait)
	}
	e.obs.IncCounter("qtt_scan_points_total", 1)
	return nil
}

// readPoint queries every measurement instrument in job order and
// appends the readings. A failing read aborts the scan; nothing is
// silently skipped.
func (e *Engine) readPoint(readers []domain.Parameter, ds *domain.Dataset) error {
	for j, m := range readers {
		if m == nil {
			return fmt.Errorf("scan: measurement instrument %d is nil", j)
		}
		v, err := m.Get()
		if err != nil {
			return fmt.Errorf("scan: read %s: %w", m.Name(), err)
		}
		ds.Arrays[j].Values = append(ds.Arrays[j].Values, v)
	}
	return nil
}

// begin flips the active gauge and returns a closure observing the
// scan duration.
func (e *Engine) begin() func() {
	start := time.Now()
	e.obs.SetGauge("qtt_scan_active", 1)
	return func() {
		e.obs.SetGauge("qtt_scan_active", 0)
		e.obs.ObserveLatency("qtt_scan_duration_seconds", time.Since(start).Seconds())
	}
}

func (e *Engine) newShell(job *domain.ScanJob, coords []domain.Coordinate, arrayNames []string) *domain.Dataset {
	arrays := make([]domain.MeasuredArray, len(arrayNames))
	for i, name := range arrayNames {
		arrays[i] = domain.MeasuredArray{Name: name}
	}
	return &domain.Dataset{
		ID:       uuid.NewString(),
		Label:    job.EffectiveLabel(),
		ScanType: job.ScanType,
		Coords:   coords,
		Arrays:   arrays,
	}
}

// finish merges metadata and hands the dataset to the store, which
// assigns the unique location. Caller metadata keys appear verbatim.
func (e *Engine) finish(st *station.Station, job *domain.ScanJob, ds *domain.Dataset, extra map[string]any) (*domain.Dataset, error) {
	if e.store == nil {
		return nil, ErrNoDatasetStore
	}

	md := map[string]any{
		"scantype":  string(job.ScanType),
		"sweepdata": axisEcho(job.Sweep),
		"run_id":    ds.ID,
	}
	if job.Step != nil {
		md["stepdata"] = axisEcho(*job.Step)
	}
	if len(ds.Arrays) > 0 {
		names := make([]string, len(ds.Arrays))
		for i, a := range ds.Arrays {
			names[i] = a.Name
		}
		md["minstrument"] = names
	}
	if job.NAverage > 0 {
		md["Naverage"] = job.NAverage
	}
	if st != nil && st.Registry != nil {
		components := st.Registry.Components()
		names := make([]string, len(components))
		for i, c := range components {
			names[i] = c.Name()
		}
		md["station_components"] = names
	}
	for k, v := range job.Metadata {
		md[k] = v
	}
	for k, v := range extra {
		md[k] = v
	}
	ds.Metadata = md
	ds.Completed = time.Now()

	location, err := e.store.Write(ds)
	if err != nil {
		return nil, fmt.Errorf("scan: store dataset: %w", err)
	}
	if !strings.Contains(location, ds.Label) {
		return nil, fmt.Errorf("%w: location=%q label=%q", ErrLabelLost, location, ds.Label)
	}
	ds.Location = location

	e.obs.IncCounter("qtt_datasets_written_total", 1)
	if e.plot != nil {
		e.plot.Update(ds)
	}
	return ds, nil
}

func axisEcho(a domain.AxisSpec) map[string]any {
	echo := map[string]any{
		"start": a.Start,
		"end":   a.End,
		"step":  a.Step,
	}
	if a.Param != nil {
		echo["param"] = a.Param.String()
	}
	return echo
}

func readerNames(readers []domain.Parameter) []string {
	names := make([]string, len(readers))
	for i, m := range readers {
		if m != nil {
			names[i] = m.Name()
		}
	}
	return names
}

func isVector(p domain.AxisParam) bool {
	_, ok := p.(domain.ParamVector)
	return ok
}

type nopObs struct{}

func (nopObs) LogInfo(string, ...ports.Field)         {}
func (nopObs) LogWarn(string, ...ports.Field)         {}
func (nopObs) LogError(string, error, ...ports.Field) {}
func (nopObs) IncCounter(string, float64)             {}
func (nopObs) ObserveLatency(string, float64)         {}
func (nopObs) SetGauge(string, float64)               {}
