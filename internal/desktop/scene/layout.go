// Package scene holds the desktop host's geometry and input bookkeeping:
// where the toolbar, surface and pickers sit on screen, which block is under
// the cursor, and how a press turns into a drag or a click. It has no
// dependency on the graphics backend.
package scene

import (
	"sort"

	"magblocks/internal/board"
)

const (
	ToolbarHeight = 48
	FooterHeight  = 64
	buttonGap     = 8
	buttonHeight  = 32
	slotSize      = 40
	// RemoveRadius is the radius of the remove handle drawn on a hovered block.
	RemoveRadius = 10
)

// Action is a toolbar command.
type Action int

const (
	ActionShuffle Action = iota
	ActionReset
	ActionClear
	ActionAnimate
	ActionAdd
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Button is a labelled toolbar button.
type Button struct {
	Action Action
	Label  string
	Rect   Rect
}

// ShapeSlot is a shape picker entry in the footer.
type ShapeSlot struct {
	Shape board.Shape
	Rect  Rect
}

// ColorSlot is a color picker entry in the footer.
type ColorSlot struct {
	Color board.ColorID
	Rect  Rect
}

// Layout places the toolbar above the surface and the template pickers below it.
type Layout struct {
	Surface board.Surface
}

// NewLayout returns the layout for surface.
func NewLayout(surface board.Surface) Layout {
	return Layout{Surface: surface}
}

// ScreenSize is the window size in pixels.
func (l Layout) ScreenSize() (int, int) {
	return int(l.Surface.Width), int(l.Surface.Height) + ToolbarHeight + FooterHeight
}

// SurfaceRect is where the surface is drawn.
func (l Layout) SurfaceRect() Rect {
	return Rect{X: 0, Y: ToolbarHeight, W: l.Surface.Width, H: l.Surface.Height}
}

// ToSurface converts screen coordinates to surface coordinates and reports
// whether the point is over the surface.
func (l Layout) ToSurface(x, y float64) (float64, float64, bool) {
	r := l.SurfaceRect()
	return x - r.X, y - r.Y, r.Contains(x, y)
}

// Buttons lays the toolbar out left to right.
func (l Layout) Buttons(animating bool) []Button {
	animate := "Animar"
	if animating {
		animate = "Pausar"
	}
	labels := []struct {
		action Action
		label  string
	}{
		{ActionShuffle, "Embaralhar"},
		{ActionReset, "Resetar"},
		{ActionClear, "Limpar"},
		{ActionAnimate, animate},
		{ActionAdd, "Adicionar"},
	}
	width := (l.Surface.Width - buttonGap*float64(len(labels)+1)) / float64(len(labels))
	out := make([]Button, 0, len(labels))
	for i, entry := range labels {
		out = append(out, Button{
			Action: entry.action,
			Label:  entry.label,
			Rect: Rect{
				X: buttonGap + float64(i)*(width+buttonGap),
				Y: (ToolbarHeight - buttonHeight) / 2,
				W: width,
				H: buttonHeight,
			},
		})
	}
	return out
}

func (l Layout) footerY() float64 {
	return ToolbarHeight + l.Surface.Height + (FooterHeight-slotSize)/2
}

// ShapeSlots lays the shape picker out at the left of the footer.
func (l Layout) ShapeSlots() []ShapeSlot {
	out := make([]ShapeSlot, 0, len(board.Shapes))
	for i, info := range board.Shapes {
		out = append(out, ShapeSlot{
			Shape: info.Shape,
			Rect:  Rect{X: buttonGap + float64(i)*(slotSize+buttonGap), Y: l.footerY(), W: slotSize, H: slotSize},
		})
	}
	return out
}

// ColorSlots lays the palette out at the right of the footer.
func (l Layout) ColorSlots() []ColorSlot {
	n := float64(len(board.Palette))
	start := l.Surface.Width - n*(slotSize+buttonGap)
	out := make([]ColorSlot, 0, len(board.Palette))
	for i, c := range board.Palette {
		out = append(out, ColorSlot{
			Color: c.ID,
			Rect:  Rect{X: start + float64(i)*(slotSize+buttonGap), Y: l.footerY(), W: slotSize, H: slotSize},
		})
	}
	return out
}

// DrawOrder returns the blocks back to front: higher z-index (connected)
// above lower, insertion order within a layer, the dragged block last.
func DrawOrder(snap board.Snapshot) []board.Block {
	out := append([]board.Block(nil), snap.Blocks...)
	sort.SliceStable(out, func(i, j int) bool {
		return layer(out[i], snap.Dragging) < layer(out[j], snap.Dragging)
	})
	return out
}

func layer(b board.Block, dragging string) int {
	switch {
	case b.ID == dragging:
		return 2
	case b.Connected:
		return 1
	}
	return 0
}

// HitBlock returns the topmost block whose box contains the surface point.
func HitBlock(snap board.Snapshot, x, y float64) (board.Block, bool) {
	order := DrawOrder(snap)
	size := snap.Surface.BlockSize
	for i := len(order) - 1; i >= 0; i-- {
		b := order[i]
		box := Rect{X: b.Position.X, Y: b.Position.Y, W: size, H: size}
		if box.Contains(x, y) {
			return b, true
		}
	}
	return board.Block{}, false
}

// RemoveHandle is the center of a block's remove control, at its top-right corner.
func RemoveHandle(b board.Block, size float64) (float64, float64) {
	return b.Position.X + size, b.Position.Y
}

// HitRemove reports whether the surface point is on b's remove control.
func HitRemove(b board.Block, size, x, y float64) bool {
	cx, cy := RemoveHandle(b, size)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= RemoveRadius*RemoveRadius
}
