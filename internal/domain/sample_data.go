package domain

// GateBoundary is the allowed [Min, Max] window for one gate.
type GateBoundary struct {
	Min float64
	Max float64
}

// SampleData carries per-sample configuration that outlives a single
// scan, such as safe gate windows for the device under test.
type SampleData struct {
	GateBoundaries map[string]GateBoundary
}

// RestrictBoundaries clamps a requested gate value to the configured
// boundary window. Gates without a boundary pass through unchanged.
func (s SampleData) RestrictBoundaries(gate string, value float64) float64 {
	b, ok := s.GateBoundaries[gate]
	if !ok {
		return value
	}
	if value < b.Min {
		return b.Min
	}
	if value > b.Max {
		return b.Max
	}
	return value
}
