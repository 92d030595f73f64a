package scene

import "time"

// FrameClock derives time from a frame counter, so the splash advances with
// the game loop rather than with the wall clock.
type FrameClock struct {
	start  time.Time
	frames int64
	tps    int
}

// NewFrameClock starts a clock at start that advances 1/tps per Tick.
func NewFrameClock(start time.Time, tps int) *FrameClock {
	if tps <= 0 {
		tps = 60
	}
	return &FrameClock{start: start, tps: tps}
}

// Tick advances one frame.
func (c *FrameClock) Tick() {
	c.frames++
}

// Now is the start time plus the elapsed frames.
func (c *FrameClock) Now() time.Time {
	return c.start.Add(time.Duration(c.frames) * time.Second / time.Duration(c.tps))
}

// FrameDuration is the time one Tick represents.
func (c *FrameClock) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.tps)
}
