// Package sweep converts declarative axis descriptions into the exact
// set-point grids a scan drives. Planning is pure arithmetic: it never
// touches instruments.
package sweep

import (
	"errors"
	"fmt"
	"math"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

// Epsilon is the fixed tolerance used to snap sweep lengths against
// floating-point error: a raw length within Epsilon of an integer is
// treated as exactly that integer.
const Epsilon = 1e-9

// Errors returned by Plan.
var (
	ErrZeroStep        = errors.New("sweep: step must be nonzero")
	ErrZeroWidth       = errors.New("sweep: start and end coincide")
	ErrBadTargetLength = errors.New("sweep: target length must be at least 2")
)

// Plan converts one axis description into its ordered set-point
// sequence and returns the revised axis spec alongside it. The revised
// spec has the Range form resolved into Start/End and, when an imposed
// target length forces a different step, the Step actually used; the
// rewrite is an explicit output because downstream consumers (and the
// original scan-job contract) observe it.
//
// With targetLength <= 0 the end value is exclusive: the sequence has
// ceil((end-start)/step) points (minimum 1) and never reaches end
// except by coincidence. With a positive targetLength the sequence has
// exactly round(targetLength) points; if the caller's step already
// yields that count the step is kept, otherwise the step is re-derived
// as (end-start)/(targetLength-1) and both endpoints are included.
//
// A zero-width axis is rejected regardless of targetLength: a sweep
// over no distance is ambiguous without direction. A step whose sign
// disagrees with the sweep direction produces an empty sequence.
func Plan(spec domain.AxisSpec, targetLength float64) ([]float64, domain.AxisSpec, error) {
	if spec.Step == 0 {
		return nil, spec, ErrZeroStep
	}

	start, end := spec.Bounds()
	revised := spec
	revised.Start, revised.End, revised.Range = start, end, 0

	raw := (end - start) / spec.Step
	if raw == 0 {
		return nil, spec, fmt.Errorf("%w: start=%g end=%g", ErrZeroWidth, start, end)
	}

	if targetLength <= 0 {
		return planExclusive(start, spec.Step, raw, revised)
	}
	return planInclusive(start, end, raw, targetLength, revised)
}

func planExclusive(start, step, raw float64, revised domain.AxisSpec) ([]float64, domain.AxisSpec, error) {
	if raw < 0 {
		// Sign of step disagrees with the sweep direction.
		return []float64{}, revised, nil
	}
	n := int(math.Ceil(raw - Epsilon))
	if n < 1 {
		n = 1
	}
	return gridValues(start, step, n), revised, nil
}

func planInclusive(start, end, raw, targetLength float64, revised domain.AxisSpec) ([]float64, domain.AxisSpec, error) {
	n := int(math.Round(targetLength))
	if n < 2 {
		return nil, revised, fmt.Errorf("%w: got %g", ErrBadTargetLength, targetLength)
	}

	// The caller's step already produces the imposed count when the
	// natural point count rounds to it; keep the step in that case so
	// the grid stays on the requested raster.
	natural := raw + 1
	if math.Round(natural) == float64(n) {
		return gridValues(start, revised.Step, n), revised, nil
	}

	step := (end - start) / float64(n-1)
	values := gridValues(start, step, n)
	values[n-1] = end
	revised.Step = step
	return values, revised, nil
}

// gridValues generates n points of the theoretical grid start + i*step.
// Each point is computed directly from the grid index so no drift
// accumulates over long sweeps; the first value is exactly start.
func gridValues(start, step float64, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	return values
}

// Plan2D plans the outer step axis and the inner sweep axis of a 2D
// scan independently, each against its own target length. The two
// sequences have no cross-dependency.
func Plan2D(stepSpec, sweepSpec domain.AxisSpec, stepLength, sweepLength float64) (stepValues []float64, revisedStep domain.AxisSpec, sweepValues []float64, revisedSweep domain.AxisSpec, err error) {
	stepValues, revisedStep, err = Plan(stepSpec, stepLength)
	if err != nil {
		return nil, stepSpec, nil, sweepSpec, fmt.Errorf("step axis: %w", err)
	}
	sweepValues, revisedSweep, err = Plan(sweepSpec, sweepLength)
	if err != nil {
		return nil, stepSpec, nil, sweepSpec, fmt.Errorf("sweep axis: %w", err)
	}
	return stepValues, revisedStep, sweepValues, revisedSweep, nil
}
