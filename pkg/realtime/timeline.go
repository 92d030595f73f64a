package realtime

import "time"

// Timeline holds the timing state for an ordered sequence of phases. Phase 0
// begins at Started; phase i (i >= 1) begins once Offsets[i-1] has elapsed.
// Offsets must be non-decreasing. It does not know what the phases mean; the
// owner composes it and reacts to Advance(now).
type Timeline struct {
	Offsets []time.Duration
	Started time.Time
	Current int
}

// Start begins the timeline at now in phase 0.
func (t *Timeline) Start(now time.Time) {
	t.Started = now
	t.Current = 0
}

// Active reports whether the timeline has started and not yet reached its last phase.
func (t *Timeline) Active() bool {
	return !t.Started.IsZero() && t.Current < len(t.Offsets)
}

// Finished reports whether the last phase has been reached.
func (t *Timeline) Finished() bool {
	return !t.Started.IsZero() && t.Current >= len(t.Offsets)
}

// NextWake returns when the next phase begins, and whether one is pending.
func (t *Timeline) NextWake(now time.Time) (time.Time, bool) {
	if !t.Active() {
		return time.Time{}, false
	}
	next := t.Started.Add(t.Offsets[t.Current])
	if next.Before(now) {
		return now, true
	}
	return next, true
}

// Advance moves to the latest phase whose offset has elapsed at now, possibly
// skipping several phases at once. finished is true only on the call that
// reaches the last phase.
func (t *Timeline) Advance(now time.Time) (advanced bool, finished bool) {
	if !t.Active() {
		return false, false
	}
	elapsed := now.Sub(t.Started)
	for t.Current < len(t.Offsets) && elapsed >= t.Offsets[t.Current] {
		t.Current++
		advanced = true
	}
	return advanced, advanced && t.Current == len(t.Offsets)
}
