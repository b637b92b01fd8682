package scan

import (
	"fmt"
	"math"
	"time"

	"github.com/VandersypenQutech/qtt/internal/app/station"
	"github.com/VandersypenQutech/qtt/internal/app/sweep"
	"github.com/VandersypenQutech/qtt/internal/domain"
)

// defaultSweepPeriod is used when a fast scan job carries no waveform
// period.
const defaultSweepPeriod = time.Millisecond

// FastScan runs a hardware-triggered sweep when the station has a
// waveform generator. When it has none the second return value is
// false and no error is raised: fast scanning is an optional
// acceleration, and callers fall back to the slow path.
func (e *Engine) FastScan(st *station.Station, job *domain.ScanJob) (*domain.Dataset, bool, error) {
	if st == nil || st.AWG == nil {
		return nil, false, nil
	}
	if job.ScanType == "" {
		job.ScanType = domain.Scan1DFast
	}
	var (
		ds  *domain.Dataset
		err error
	)
	switch job.ScanType {
	case domain.Scan2DFast:
		ds, err = e.Scan2DFast(st, job, nil)
	default:
		ds, err = e.Scan1DFast(st, job, nil)
	}
	return ds, true, err
}

// Scan1DFast acquires a full sweep in one triggered block: the
// waveform generator drives the axis while the digitizer records one
// segment per period. Without a waveform generator it degrades to the
// slow point-by-point path.
func (e *Engine) Scan1DFast(st *station.Station, job *domain.ScanJob, extra map[string]any) (*domain.Dataset, error) {
	if job.ScanType == "" {
		job.ScanType = domain.Scan1DFast
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if st.AWG == nil {
		e.obs.LogWarn("fast scan unavailable, falling back to slow sweep")
		slow := *job
		slow.ScanType = domain.Scan1D
		if slow.DatasetLabel == "" {
			slow.DatasetLabel = job.EffectiveLabel()
		}
		return e.Scan1D(st, &slow, extra)
	}

	param, err := NewResolver(st).Resolve(job.Sweep.Param)
	if err != nil {
		return nil, err
	}

	wf, triggers, err := e.armWaveform(st, &job.Sweep)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.AWG.Stop() }()

	values, revised, err := sweep.Plan(job.Sweep, float64(triggers))
	if err != nil {
		return nil, err
	}
	job.Sweep = revised

	done := e.begin()
	defer done()

	// Park the axis on the sweep midpoint; the generator moves around it.
	start, end := job.Sweep.Bounds()
	if err := param.Set((start + end) / 2); err != nil {
		return nil, fmt.Errorf("scan: park %s: %w", param.Name(), err)
	}
	time.Sleep(job.WaitTimeStartScan)

	channels := readChannels(job)
	res, err := e.acquireBlock(wf, job, st, channels)
	if err != nil {
		return nil, err
	}

	ds := e.newShell(job, []domain.Coordinate{{Name: param.Name(), Values: values}}, channelNames(channels))
	fillBlock(ds, res, len(values))
	return e.finish(st, job, ds, extra)
}

// Scan2DFast steps the outer axis point by point and acquires the
// inner sweep as one triggered block per step value.
func (e *Engine) Scan2DFast(st *station.Station, job *domain.ScanJob, extra map[string]any) (*domain.Dataset, error) {
	if job.ScanType == "" {
		job.ScanType = domain.Scan2DFast
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if st.AWG == nil {
		e.obs.LogWarn("fast scan unavailable, falling back to slow sweep")
		slow := *job
		slow.ScanType = domain.Scan2D
		if slow.DatasetLabel == "" {
			slow.DatasetLabel = job.EffectiveLabel()
		}
		return e.Scan2D(st, &slow, extra)
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

	stepValues, revisedStep, err := sweep.Plan(*job.Step, 0)
	if err != nil {
		return nil, fmt.Errorf("step axis: %w", err)
	}
	*job.Step = revisedStep

	wf, triggers, err := e.armWaveform(st, &job.Sweep)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.AWG.Stop() }()

	sweepValues, revisedSweep, err := sweep.Plan(job.Sweep, float64(triggers))
	if err != nil {
		return nil, fmt.Errorf("sweep axis: %w", err)
	}
	job.Sweep = revisedSweep

	done := e.begin()
	defer done()
	time.Sleep(job.WaitTimeStartScan)

	channels := readChannels(job)
	coords := []domain.Coordinate{
		{Name: stepParam.Name(), Values: stepValues},
		{Name: sweepParam.Name(), Values: sweepValues},
	}
	ds := e.newShell(job, coords, channelNames(channels))
	for _, sv := range stepValues {
		if err := e.setPoint(stepParam, sv, job.Step.Wait); err != nil {
			return nil, err
		}
		res, err := e.acquireBlock(wf, job, st, channels)
		if err != nil {
			return nil, err
		}
		fillBlock(ds, res, len(sweepValues))
		if e.plot != nil {
			e.plot.Update(ds)
		}
	}

	return e.finish(st, job, ds, extra)
}

// armWaveform programs the generator for one sweep period and returns
// the waveform plus the hardware trigger count imposed on the planner.
func (e *Engine) armWaveform(st *station.Station, axis *domain.AxisSpec) (domain.Waveform, int, error) {
	period := axis.Period
	if period <= 0 {
		period = defaultSweepPeriod
	}

	start, end := axis.Bounds()
	wf, err := st.AWG.SweepGate(axis.Param.String(), end-start, period)
	if err != nil {
		return domain.Waveform{}, 0, fmt.Errorf("scan: program waveform: %w", err)
	}

	triggers := wf.Samples
	if triggers <= 0 {
		rate, err := SamplingFrequency(st.Digitizer)
		if err != nil {
			return domain.Waveform{}, 0, err
		}
		triggers = int(math.Round(period.Seconds() * rate))
		wf.Samples = triggers
	}
	if triggers < 2 {
		return domain.Waveform{}, 0, fmt.Errorf("scan: waveform yields %d trigger points, need at least 2", triggers)
	}
	return wf, triggers, nil
}

func (e *Engine) acquireBlock(wf domain.Waveform, job *domain.ScanJob, st *station.Station, channels []int) (domain.AcquisitionResult, error) {
	averages := job.NAverage
	if averages < 1 {
		averages = 1
	}
	res, err := MeasureSegment(wf, averages, st.Digitizer, channels, e.obs)
	if err != nil {
		return domain.AcquisitionResult{}, err
	}
	e.obs.IncCounter("qtt_acquisitions_total", 1)
	if res.Empty() {
		e.obs.IncCounter("qtt_empty_acquisitions_total", 1)
	}
	return res, nil
}

// fillBlock appends one acquired block to the dataset arrays. Hardware
// may deliver margin samples beyond the sweep grid; those are cut.
func fillBlock(ds *domain.Dataset, res domain.AcquisitionResult, rowLength int) {
	for i := range ds.Arrays {
		var block []float64
		if i < len(res.Channels) {
			block = res.Channels[i]
		}
		if len(block) > rowLength {
			block = block[:rowLength]
		}
		ds.Arrays[i].Values = append(ds.Arrays[i].Values, block...)
	}
}

func readChannels(job *domain.ScanJob) []int {
	if len(job.MeasureChannels) > 0 {
		return job.MeasureChannels
	}
	return []int{0}
}

func channelNames(channels []int) []string {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = fmt.Sprintf("ch%d", ch)
	}
	return names
}
