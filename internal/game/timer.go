package game

import "math"

// timeEpsilon absorbs drift from summing frame deltas: a clock within a
// nanosecond of a boundary has reached it.
const timeEpsilon = 1e-9

// Timer is a frame-delta countdown. A zero Timer is idle.
type Timer struct {
	Remaining float64
	Duration  float64
}

// Start (re)arms the timer for d seconds.
func (t *Timer) Start(d float64) {
	if d < 0 || math.IsNaN(d) {
		d = 0
	}
	t.Duration = d
	t.Remaining = d
}

// Tick advances the timer by dt. It returns true only on the tick the
// timer reaches zero.
func (t *Timer) Tick(dt float64) bool {
	if t.Remaining <= timeEpsilon {
		t.Remaining = 0
		return false
	}
	t.Remaining -= dt
	if t.Remaining <= timeEpsilon {
		t.Remaining = 0
		return true
	}
	return false
}

// Active reports whether time remains.
func (t *Timer) Active() bool { return t.Remaining > timeEpsilon }

// Elapsed returns the time since the last Start.
func (t *Timer) Elapsed() float64 { return t.Duration - t.Remaining }

// Clear stops the timer without firing.
func (t *Timer) Clear() {
	t.Remaining = 0
	t.Duration = 0
}

// Stopwatch counts elapsed time upward.
type Stopwatch struct {
	Elapsed float64
}

func (s *Stopwatch) Tick(dt float64) { s.Elapsed += dt }
func (s *Stopwatch) Reset()          { s.Elapsed = 0 }

// ClampDelta bounds a frame delta to [0, max], mapping NaN/Inf/negative
// input to zero so a bad clock read never rewinds or explodes the simulation.
func ClampDelta(dt, max float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	return dt
}
