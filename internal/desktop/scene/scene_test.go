package scene

import (
	"image/color"
	"testing"
	"time"

	"magblocks/internal/board"
)

func TestLayout_ScreenAndSurface(t *testing.T) {
	l := NewLayout(board.DefaultSurface())
	w, h := l.ScreenSize()
	if w != 600 || h != 500+ToolbarHeight+FooterHeight {
		t.Errorf("ScreenSize = %d,%d", w, h)
	}
	x, y, ok := l.ToSurface(300, ToolbarHeight+250)
	if !ok || x != 300 || y != 250 {
		t.Errorf("ToSurface = %v,%v,%v", x, y, ok)
	}
	if _, _, ok := l.ToSurface(10, 10); ok {
		t.Error("toolbar point should not be on the surface")
	}
}

func TestLayout_ButtonsDoNotOverlap(t *testing.T) {
	l := NewLayout(board.DefaultSurface())
	buttons := l.Buttons(false)
	if len(buttons) != 5 {
		t.Fatalf("%d buttons, want 5", len(buttons))
	}
	for i := 1; i < len(buttons); i++ {
		prev, cur := buttons[i-1].Rect, buttons[i].Rect
		if prev.X+prev.W > cur.X {
			t.Errorf("button %d overlaps button %d", i-1, i)
		}
	}
	last := buttons[len(buttons)-1].Rect
	if last.X+last.W > 600 {
		t.Errorf("toolbar overflows: %+v", last)
	}
	if buttons[3].Label != "Animar" || l.Buttons(true)[3].Label != "Pausar" {
		t.Error("animate label should follow the animation flag")
	}
}

func TestLayout_PickersFitInFooter(t *testing.T) {
	l := NewLayout(board.DefaultSurface())
	shapes, colors := l.ShapeSlots(), l.ColorSlots()
	if len(shapes) != 4 || len(colors) != 6 {
		t.Fatalf("%d shapes, %d colors", len(shapes), len(colors))
	}
	lastShape := shapes[len(shapes)-1].Rect
	if lastShape.X+lastShape.W > colors[0].Rect.X {
		t.Error("shape picker overlaps color picker")
	}
	top := float64(ToolbarHeight) + 500
	for _, c := range colors {
		if c.Rect.Y < top || c.Rect.Y+c.Rect.H > top+FooterHeight {
			t.Errorf("color slot %v outside footer", c.Rect)
		}
	}
}

func TestDrawOrder(t *testing.T) {
	snap := board.Snapshot{
		Surface: board.DefaultSurface(),
		Blocks: []board.Block{
			{ID: "a", Connected: true},
			{ID: "b"},
			{ID: "c", Connected: true},
			{ID: "d"},
		},
		Dragging: "b",
	}
	var ids []string
	for _, b := range DrawOrder(snap) {
		ids = append(ids, b.ID)
	}
	want := []string{"d", "a", "c", "b"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order %v, want %v", ids, want)
		}
	}
}

func TestHitBlock_PrefersTopmost(t *testing.T) {
	snap := board.Snapshot{
		Surface: board.DefaultSurface(),
		Blocks: []board.Block{
			{ID: "top", Position: board.Point{X: 100, Y: 100}, Connected: true},
			{ID: "under", Position: board.Point{X: 110, Y: 110}},
		},
	}
	got, ok := HitBlock(snap, 120, 120)
	if !ok || got.ID != "top" {
		t.Errorf("hit %q, want top", got.ID)
	}
	got, ok = HitBlock(snap, 150, 150)
	if !ok || got.ID != "under" {
		t.Errorf("hit %q, want under", got.ID)
	}
	if _, ok := HitBlock(snap, 10, 10); ok {
		t.Error("empty point should miss")
	}
}

func TestHitRemove(t *testing.T) {
	b := board.Block{Position: board.Point{X: 100, Y: 100}}
	if !HitRemove(b, 48, 148, 100) {
		t.Error("handle center should hit")
	}
	if HitRemove(b, 48, 124, 124) {
		t.Error("block center should not hit the handle")
	}
}

func TestGesture_ClickVersusDrag(t *testing.T) {
	var g Gesture
	g.Press("1", 10, 10)
	if g.Move(11, 12) {
		t.Error("small jitter should not start a drag")
	}
	id, click := g.Release()
	if id != "1" || !click {
		t.Errorf("Release = %q,%v; want 1,true", id, click)
	}

	g.Press("2", 10, 10)
	if !g.Move(40, 10) {
		t.Error("large motion should start a drag")
	}
	g.Move(11, 10)
	if _, click := g.Release(); click {
		t.Error("a drag that returns near the start is still a drag")
	}
	if g.Active() {
		t.Error("gesture should be inactive after release")
	}
	if id, click := g.Release(); id != "" || click {
		t.Error("release without press should be a no-op")
	}
}

func TestFrameClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFrameClock(start, 60)
	for i := 0; i < 60; i++ {
		c.Tick()
	}
	if got := c.Now().Sub(start); got != time.Second {
		t.Errorf("elapsed %v after 60 ticks, want 1s", got)
	}
	if NewFrameClock(start, 0).FrameDuration() != time.Second/60 {
		t.Error("non-positive tps should default to 60")
	}
}

func TestColors(t *testing.T) {
	if got := RGBA("#E53E3E"); got != (color.RGBA{R: 0xE5, G: 0x3E, B: 0x3E, A: 0xff}) {
		t.Errorf("RGBA = %+v", got)
	}
	if got := RGBA("nope"); got != (color.RGBA{A: 0xff}) {
		t.Errorf("malformed = %+v", got)
	}
	if got := Brighten(color.RGBA{R: 250, G: 100, A: 255}, 1.1); got.R != 255 || got.G != 110 {
		t.Errorf("Brighten = %+v", got)
	}
	if got := WithAlpha(color.RGBA{R: 200, A: 255}, 0.5); got.R != 100 || got.A != 127 {
		t.Errorf("WithAlpha = %+v", got)
	}

	plain, _ := BlockColors(board.Block{Color: board.ColorBlue})
	lit, _ := BlockColors(board.Block{Color: board.ColorBlue, Connected: true})
	if lit.B <= plain.B {
		t.Error("connected blocks should be brighter")
	}
}
