package domain

import "time"

// Waveform describes one period of the drive signal used for a
// hardware-triggered sweep: which gate it moves, over what range, and
// how many digitizer samples one period spans at the configured
// sampling frequency.
type Waveform struct {
	Gate       string
	SweepRange float64
	Period     time.Duration
	Samples    int
}
