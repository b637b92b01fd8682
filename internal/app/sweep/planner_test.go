package sweep

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func assertSequence(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("sequence length = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range want {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("value[%d] = %.15g, want %.15g", i, got[i], want[i])
		}
	}
}

func TestPlanExclusive(t *testing.T) {
	spec := domain.AxisSpec{Param: domain.ParamGate{Gate: "P1"}, Start: -2, End: 2, Step: 0.4}

	values, _, err := Plan(spec, 0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	want := []float64{-2.0, -1.6, -1.2, -0.8, -0.4, 0.0, 0.4, 0.8, 1.2, 1.6}
	assertSequence(t, values, want, 1e-12)
	if values[0] != -2.0 {
		t.Fatalf("first value = %g, want exactly -2", values[0])
	}
	for i, v := range values {
		if v >= 2.0 {
			t.Fatalf("value[%d] = %g reaches the exclusive end", i, v)
		}
		if i > 0 && v <= values[i-1] {
			t.Fatalf("sequence not strictly increasing at %d", i)
		}
	}
}

func TestPlanExclusiveShorterThanStep(t *testing.T) {
	spec := domain.AxisSpec{Start: 20, End: 20.0050, Step: 0.0075}

	values, _, err := Plan(spec, 0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	assertSequence(t, values, []float64{20.0}, 1e-12)
}

func TestPlanInclusive(t *testing.T) {
	spec := domain.AxisSpec{Start: -2, End: 2, Step: 0.4}

	values, revised, err := Plan(spec, 11)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	want := []float64{-2.0, -1.6, -1.2, -0.8, -0.4, 0.0, 0.4, 0.8, 1.2, 1.6, 2.0}
	assertSequence(t, values, want, 1e-12)
	if revised.End != 2 {
		t.Fatalf("revised end = %g, want 2", revised.End)
	}
}

func TestPlanRangeForm(t *testing.T) {
	spec := domain.AxisSpec{Param: domain.ParamGate{Gate: "dac1"}, Range: 8, Step: 2}

	values, revised, err := Plan(spec, 0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	assertSequence(t, values, []float64{-4, -2, 0, 2}, 1e-12)
	if revised.Start != -4 || revised.End != 4 || revised.Range != 0 {
		t.Fatalf("range not resolved into start/end: %+v", revised)
	}

	values, _, err = Plan(spec, 5)
	if err != nil {
		t.Fatalf("plan inclusive: %v", err)
	}
	assertSequence(t, values, []float64{-4, -2, 0, 2, 4}, 1e-12)
}

func TestPlanRangeEquivalentToStartEnd(t *testing.T) {
	ranged := domain.AxisSpec{Start: 1.5, Range: 7, Step: 0.5}
	explicit := domain.AxisSpec{Start: 1.5 - 3.5, End: 1.5 + 3.5, Step: 0.5}

	for _, target := range []float64{0, 15} {
		a, _, err := Plan(ranged, target)
		if err != nil {
			t.Fatalf("plan ranged (target %g): %v", target, err)
		}
		b, _, err := Plan(explicit, target)
		if err != nil {
			t.Fatalf("plan explicit (target %g): %v", target, err)
		}
		assertSequence(t, a, b, 0)
	}
}

func TestPlanTargetLengthRederivesStep(t *testing.T) {
	spec := domain.AxisSpec{Start: -2, End: 2, Step: 0.4}

	values, revised, err := Plan(spec, 5)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	want := []float64{-2.0, -1.0, 0.0, 1.0, 2.0}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("value[%d] = %g, want exactly %g", i, values[i], want[i])
		}
	}
	if revised.Step != 1.0 {
		t.Fatalf("revised step = %g, want 1", revised.Step)
	}
	if revised.End != 2.0 {
		t.Fatalf("revised end = %g, want 2", revised.End)
	}
}

func TestPlanKeepsStepWhenCountMatches(t *testing.T) {
	// Exclusive: 40/0.0075 is fractional, the grid stops short of end.
	spec := domain.AxisSpec{Start: -20, End: 20, Step: 0.0075}
	values, _, err := Plan(spec, 0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(values) != 5334 {
		t.Fatalf("length = %d, want 5334", len(values))
	}
	if values[0] != -20.0 {
		t.Fatalf("first value = %g, want exactly -20", values[0])
	}
	if !almostEqual(values[len(values)-1], 20.0-0.0025, 1e-10) {
		t.Fatalf("last value = %.12g, want 19.9975", values[len(values)-1])
	}

	// Inclusive with the matching trigger count keeps the caller's
	// step and leaves the recorded end on the requested bound.
	spec = domain.AxisSpec{Start: -20, End: 20, Step: 0.0075}
	values, revised, err := Plan(spec, 40/0.0075+1)
	if err != nil {
		t.Fatalf("plan inclusive: %v", err)
	}
	if len(values) != 5334 {
		t.Fatalf("length = %d, want 5334", len(values))
	}
	if !almostEqual(values[len(values)-1], 20.0-0.0025, 1e-10) {
		t.Fatalf("last value = %.12g, want 19.9975", values[len(values)-1])
	}
	if !almostEqual(revised.End, 20, 1e-10) {
		t.Fatalf("revised end = %.12g, want 20", revised.End)
	}
}

func TestPlanFractionalTargetLength(t *testing.T) {
	spec := domain.AxisSpec{Start: -500, End: 1, Step: 0.8}

	values, revised, err := Plan(spec, 0)
	if err != nil {
		t.Fatalf("plan exclusive: %v", err)
	}
	if len(values) != 627 {
		t.Fatalf("length = %d, want 627", len(values))
	}
	if values[0] != -500.0 {
		t.Fatalf("first value = %g, want exactly -500", values[0])
	}
	if !almostEqual(values[len(values)-1], 1-0.2, 1e-10) {
		t.Fatalf("last value = %.12g, want 0.8", values[len(values)-1])
	}
	if !almostEqual(revised.End, 1, 1e-10) {
		t.Fatalf("revised end = %.12g, want 1", revised.End)
	}

	spec = domain.AxisSpec{Start: -500, End: 1, Step: 0.8}
	values, revised, err = Plan(spec, 501/0.8+1)
	if err != nil {
		t.Fatalf("plan inclusive: %v", err)
	}
	if len(values) != 627 {
		t.Fatalf("length = %d, want 627", len(values))
	}
	if !almostEqual(values[len(values)-1], 0.8, 1e-10) {
		t.Fatalf("last value = %.12g, want 0.8", values[len(values)-1])
	}
	if !almostEqual(revised.End, 1, 1e-10) {
		t.Fatalf("revised end = %.12g, want 1", revised.End)
	}
}

func TestPlanZeroWidth(t *testing.T) {
	spec := domain.AxisSpec{Start: 20, End: 20, Step: 0.0075}

	if _, _, err := Plan(spec, 0); !errors.Is(err, ErrZeroWidth) {
		t.Fatalf("expected ErrZeroWidth, got %v", err)
	}
	if _, _, err := Plan(spec, 1); err == nil {
		t.Fatalf("expected error for zero-width sweep with target length 1")
	}
}

func TestPlanZeroStep(t *testing.T) {
	spec := domain.AxisSpec{Start: 0, End: 1, Step: 0}
	if _, _, err := Plan(spec, 0); !errors.Is(err, ErrZeroStep) {
		t.Fatalf("expected ErrZeroStep, got %v", err)
	}
}

func TestPlanReversedSign(t *testing.T) {
	spec := domain.AxisSpec{Start: 0, End: 10, Step: -1}
	values, _, err := Plan(spec, 0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected empty sequence for mismatched step sign, got %v", values)
	}
}

func TestPlanWideParameterGrid(t *testing.T) {
	for idx := 1; idx <= 4; idx++ {
		for start := -5; start <= 0; start++ {
			for end := 1; end <= 4; end++ {
				for s := 1; s <= 4; s++ {
					step := float64(s) / float64(idx*10)
					spec := domain.AxisSpec{Start: float64(start), End: float64(end), Step: step}

					if _, _, err := Plan(spec, 0); err != nil {
						t.Fatalf("exclusive plan %+v: %v", spec, err)
					}

					target := (float64(end)-float64(start))/step + 1
					values, _, err := Plan(spec, target)
					if err != nil {
						t.Fatalf("inclusive plan %+v (target %g): %v", spec, target, err)
					}
					if len(values) != int(math.Round(target)) {
						t.Fatalf("inclusive plan %+v: length %d, want %d", spec, len(values), int(math.Round(target)))
					}
				}
			}
		}
	}
}

func TestPlan2D(t *testing.T) {
	stepSpec := domain.AxisSpec{Start: 24, End: 32, Step: 1}
	sweepSpec := domain.AxisSpec{Start: 0, End: 10, Step: 4}

	stepValues, _, sweepValues, _, err := Plan2D(stepSpec, sweepSpec, 3, 5)
	if err != nil {
		t.Fatalf("plan2d: %v", err)
	}

	wantStep := []float64{24.0, 28.0, 32.0}
	for i := range wantStep {
		if stepValues[i] != wantStep[i] {
			t.Fatalf("step value[%d] = %g, want exactly %g", i, stepValues[i], wantStep[i])
		}
	}
	wantSweep := []float64{0, 2.5, 5.0, 7.5, 10.0}
	for i := range wantSweep {
		if sweepValues[i] != wantSweep[i] {
			t.Fatalf("sweep value[%d] = %g, want exactly %g", i, sweepValues[i], wantSweep[i])
		}
	}
}

func TestPlanIdempotentOnRevisedSpec(t *testing.T) {
	spec := domain.AxisSpec{Start: -2, End: 2, Step: 0.4}

	first, revised, err := Plan(spec, 5)
	if err != nil {
		t.Fatalf("first plan: %v", err)
	}
	second, _, err := Plan(revised, 5)
	if err != nil {
		t.Fatalf("second plan: %v", err)
	}
	assertSequence(t, second, first, 0)
}

func TestPlanVectorAxisRegression(t *testing.T) {
	// Planner regression from a live tuning session: a vector axis with
	// a negative range and negative step, forced onto 566 triggers.
	spec := domain.AxisSpec{
		Param:  domain.ParamVector{Terms: []domain.VectorTerm{{Gate: "P1", Coeff: 1}}},
		Start:  714.84130859375,
		End:    709.84130859375,
		Range:  -5,
		Step:   -0.01098901098901099,
		Period: 500 * time.Microsecond,
	}

	values, _, err := Plan(spec, 566)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(values) != 566 {
		t.Fatalf("length = %d, want 566", len(values))
	}
}
