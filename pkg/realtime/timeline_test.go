package realtime

import (
	"testing"
	"time"
)

func newTimeline() *Timeline {
	return &Timeline{Offsets: []time.Duration{
		100 * time.Millisecond,
		4 * time.Second,
		5 * time.Second,
	}}
}

func TestTimeline_NextWake_NotStarted(t *testing.T) {
	tl := newTimeline()
	next, ok := tl.NextWake(time.Now().UTC())
	if ok {
		t.Error("NextWake should return false when not started")
	}
	if !next.IsZero() {
		t.Error("next should be zero")
	}
	if advanced, finished := tl.Advance(time.Now().UTC()); advanced || finished {
		t.Error("Advance should do nothing before Start")
	}
}

func TestTimeline_StepsThroughPhases(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tl := newTimeline()
	tl.Start(start)

	next, ok := tl.NextWake(start)
	if !ok || !next.Equal(start.Add(100*time.Millisecond)) {
		t.Fatalf("NextWake = %v, %v; want start+100ms", next, ok)
	}

	if advanced, _ := tl.Advance(start.Add(50 * time.Millisecond)); advanced {
		t.Error("should not advance before the first offset")
	}
	if advanced, finished := tl.Advance(start.Add(100 * time.Millisecond)); !advanced || finished {
		t.Errorf("advanced=%v finished=%v, want true false", advanced, finished)
	}
	if tl.Current != 1 {
		t.Errorf("Current %d, want 1", tl.Current)
	}
	if advanced, finished := tl.Advance(start.Add(4 * time.Second)); !advanced || finished {
		t.Errorf("advanced=%v finished=%v, want true false", advanced, finished)
	}
	if advanced, finished := tl.Advance(start.Add(5 * time.Second)); !advanced || !finished {
		t.Errorf("advanced=%v finished=%v, want true true", advanced, finished)
	}
	if !tl.Finished() {
		t.Error("Finished should be true")
	}
	if advanced, finished := tl.Advance(start.Add(10 * time.Second)); advanced || finished {
		t.Error("finished timeline should not report again")
	}
	if _, ok := tl.NextWake(start.Add(10 * time.Second)); ok {
		t.Error("NextWake should be false once finished")
	}
}

func TestTimeline_AdvanceSkipsElapsedPhases(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tl := newTimeline()
	tl.Start(start)

	advanced, finished := tl.Advance(start.Add(6 * time.Second))
	if !advanced || !finished {
		t.Errorf("advanced=%v finished=%v, want true true", advanced, finished)
	}
	if tl.Current != 3 {
		t.Errorf("Current %d, want 3", tl.Current)
	}
}

func TestTimeline_NextWakeInPastReturnsNow(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tl := newTimeline()
	tl.Start(start)
	now := start.Add(time.Second)
	next, ok := tl.NextWake(now)
	if !ok || !next.Equal(now) {
		t.Errorf("NextWake = %v, %v; want now", next, ok)
	}
}
