package scene

import "math"

// clickSlop is how far the pointer may travel before a press becomes a drag.
const clickSlop = 3

// Gesture tracks one mouse press on a block.
type Gesture struct {
	active  bool
	blockID string
	startX  float64
	startY  float64
	moved   bool
}

// Press starts a gesture on blockID at (x, y).
func (g *Gesture) Press(blockID string, x, y float64) {
	*g = Gesture{active: true, blockID: blockID, startX: x, startY: y}
}

// Move records pointer motion and reports whether the gesture is a drag.
func (g *Gesture) Move(x, y float64) bool {
	if !g.active {
		return false
	}
	if !g.moved && math.Hypot(x-g.startX, y-g.startY) > clickSlop {
		g.moved = true
	}
	return g.moved
}

// Release ends the gesture. click is true when the pointer never left the slop.
func (g *Gesture) Release() (blockID string, click bool) {
	if !g.active {
		return "", false
	}
	blockID, click = g.blockID, !g.moved
	*g = Gesture{}
	return blockID, click
}

// Active reports whether a press is in progress.
func (g *Gesture) Active() bool {
	return g.active
}
