package core

import "time"

// FixedStep paces Step calls at a steady ticks-per-second rate. Tick cadence
// lives outside the engine proper: each Step runs to completion and the
// scheduler decides when the next one fires.
type FixedStep struct {
	interval    time.Duration
	accumulated time.Duration
	last        time.Time
}

// NewFixedStep constructs a controller targeting the given TPS; non-positive
// rates fall back to 60.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulated = fs.interval
	return fs
}

// SetTPS changes the tick rate. Safe to call between ShouldStep checks.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.interval = time.Second / time.Duration(tps)
}

// ShouldStep reports whether enough wall time has accumulated for one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulated += now.Sub(f.last)
	f.last = now
	if f.accumulated < f.interval {
		return false
	}
	f.accumulated -= f.interval
	return true
}
