// Package splash implements the timed overlay shown before the board.
//
// The overlay is a small state machine, FadingIn → Holding → FadingOut → Done,
// whose transitions are driven by elapsed time. Callers pass the current time
// into every method, so hosts can drive it from wall-clock timers (the web
// host's room loop) or from a frame counter (the desktop host), and tests can
// drive it from a virtual clock.
package splash

import (
	"sync"
	"time"

	"magblocks/pkg/realtime"
)

// Phase is one step of the splash sequence.
type Phase int

const (
	FadingIn Phase = iota
	Holding
	FadingOut
	Done
)

func (p Phase) String() string {
	switch p {
	case FadingIn:
		return "fading_in"
	case Holding:
		return "holding"
	case FadingOut:
		return "fading_out"
	case Done:
		return "done"
	}
	return "unknown"
}

const (
	// DefaultDuration is the total time the splash stays up.
	DefaultDuration = 5 * time.Second
	// FadeInDelay is when the overlay turns opaque.
	FadeInDelay = 100 * time.Millisecond
	// FadeOutLead is how long before the end the fade-out starts.
	FadeOutLead = time.Second
)

// Splash sequences one splash screen. It is safe for concurrent use.
type Splash struct {
	mu         sync.Mutex
	duration   time.Duration
	timeline   realtime.Timeline
	onFinished func()
	stopped    bool
}

// New returns a splash that calls onFinished once, duration after Start.
// A non-positive duration means DefaultDuration.
func New(duration time.Duration, onFinished func()) *Splash {
	if duration <= 0 {
		duration = DefaultDuration
	}
	fadeOut := clampDuration(duration-FadeOutLead, 0, duration)
	fadeIn := clampDuration(FadeInDelay, 0, duration)
	if fadeIn > fadeOut {
		// Fade-out already started; Holding is skipped.
		fadeIn = fadeOut
	}
	return &Splash{
		duration: duration,
		timeline: realtime.Timeline{
			Offsets: []time.Duration{fadeIn, fadeOut, duration},
		},
		onFinished: onFinished,
	}
}

// Duration returns the configured total duration.
func (s *Splash) Duration() time.Duration {
	return s.duration
}

// Start begins the sequence at now.
func (s *Splash) Start(now time.Time) {
	s.mu.Lock()
	s.timeline.Start(now)
	s.mu.Unlock()
	s.Advance(now)
}

// Advance applies every transition due at now and reports whether the phase
// changed. Reaching Done invokes the completion callback, exactly once.
func (s *Splash) Advance(now time.Time) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	advanced, finished := s.timeline.Advance(now)
	var cb func()
	if finished {
		cb = s.onFinished
	}
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
	return advanced
}

// NextWake returns when the next transition is due.
func (s *Splash) NextWake(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return time.Time{}, false
	}
	return s.timeline.NextWake(now)
}

// Stop tears the splash down. No transition and no callback happen afterwards.
func (s *Splash) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (s *Splash) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Phase returns the current phase.
func (s *Splash) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Phase(s.timeline.Current)
}

// View is what a host needs to draw the overlay.
type View struct {
	Phase   Phase
	Visible bool
	Opaque  bool
	FadeOut bool
}

// View returns the drawable state for the current phase.
func (s *Splash) View() View {
	p := s.Phase()
	return View{
		Phase:   p,
		Visible: p != Done,
		Opaque:  p == Holding || p == FadingOut,
		FadeOut: p == FadingOut,
	}
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
