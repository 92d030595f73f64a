package desktop

import (
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"magblocks/internal/board"
	"magblocks/internal/desktop/scene"
)

var (
	backgroundColor = color.RGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff}
	surfaceColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	borderColor     = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	buttonColor     = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	textDark        = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	textMuted       = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	dotColor        = color.RGBA{R: 0x4b, G: 0x55, B: 0x63, A: 0x99}
	removeColor     = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	selectedColor   = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
)

var face font.Face = basicfont.Face7x13

// renderer fills arbitrary polygons through DrawTriangles with a white source.
type renderer struct {
	fillImg *ebiten.Image
	vs      []ebiten.Vertex
	is      []uint16
}

func newRenderer() *renderer {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return &renderer{fillImg: img}
}

type point struct{ x, y float64 }

func (r *renderer) fillPolygon(dst *ebiten.Image, pts []point, clr color.RGBA) {
	if len(pts) < 3 {
		return
	}
	path := vector.Path{}
	path.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.x), float32(p.y))
	}
	path.Close()

	r.vs, r.is = path.AppendVerticesAndIndicesForFilling(r.vs[:0], r.is[:0])
	for i := range r.vs {
		r.vs[i].SrcX, r.vs[i].SrcY = 0, 0
		r.vs[i].ColorR = float32(clr.R) / 255
		r.vs[i].ColorG = float32(clr.G) / 255
		r.vs[i].ColorB = float32(clr.B) / 255
		r.vs[i].ColorA = float32(clr.A) / 255
	}
	dst.DrawTriangles(r.vs, r.is, r.fillImg, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// rotated returns pts turned by deg degrees around (cx, cy).
func rotated(pts []point, cx, cy, deg float64) []point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	out := make([]point, len(pts))
	for i, p := range pts {
		dx, dy := p.x-cx, p.y-cy
		out[i] = point{x: cx + dx*cos - dy*sin, y: cy + dx*sin + dy*cos}
	}
	return out
}

func (r *renderer) drawBoard(screen *ebiten.Image, layout scene.Layout, snap board.Snapshot, hover string, now time.Time) {
	screen.Fill(backgroundColor)
	r.drawToolbar(screen, layout, snap.Animating)

	sr := layout.SurfaceRect()
	vector.DrawFilledRect(screen, float32(sr.X), float32(sr.Y), float32(sr.W), float32(sr.H), surfaceColor, false)
	vector.StrokeRect(screen, float32(sr.X), float32(sr.Y), float32(sr.W), float32(sr.H), 4, borderColor, false)

	alpha := 1.0
	if snap.Animating {
		// Same 2s cycle as the browser's pulse, dipping to half opacity.
		phase := float64(now.UnixMilli()%2000) / 2000
		alpha = 0.75 + 0.25*math.Cos(2*math.Pi*phase)
	}

	size := snap.Surface.BlockSize
	for _, b := range scene.DrawOrder(snap) {
		r.drawBlock(screen, sr.X+b.Position.X, sr.Y+b.Position.Y, size, b, alpha)
		if b.ID == hover {
			hx, hy := scene.RemoveHandle(b, size)
			vector.DrawFilledCircle(screen, float32(sr.X+hx), float32(sr.Y+hy), scene.RemoveRadius, removeColor, true)
			drawCentered(screen, "x", sr.X+hx, sr.Y+hy+4, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		}
	}

	if len(snap.Blocks) == 0 {
		drawCentered(screen, "Adicione blocos para começar a construir!", sr.X+sr.W/2, sr.Y+sr.H/2, textMuted)
	}
	text.Draw(screen, "Total de blocos: "+strconv.Itoa(len(snap.Blocks)), face, int(sr.X)+10, int(sr.Y+sr.H)-10, textDark)
	r.drawFooter(screen, layout, snap)
}

func (r *renderer) drawBlock(screen *ebiten.Image, x, y, size float64, b board.Block, alpha float64) {
	base, baseShadow := scene.BlockColors(b)
	primary, shadow := scene.WithAlpha(base, alpha), scene.WithAlpha(baseShadow, alpha)
	cx, cy := x+size/2, y+size/2

	switch b.Shape {
	case board.ShapeCube:
		// Shadow square with a smaller primary square offset to the top-left
		// stands in for the 135 degree gradient.
		r.fillPolygon(screen, rotated(square(x, y, size), cx, cy, b.Rotation), shadow)
		r.fillPolygon(screen, rotated(square(x+2, y+2, size-8), cx, cy, b.Rotation), primary)
	case board.ShapePyramid:
		tri := []point{{x + size/2, y}, {x + size, y + size}, {x, y + size}}
		r.fillPolygon(screen, rotated(tri, cx, cy+2, b.Rotation), shadow)
		r.fillPolygon(screen, rotated(tri, cx, cy, b.Rotation), primary)
	case board.ShapeSphere:
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(size/2), shadow, true)
		// Highlight toward 30%/30%.
		vector.DrawFilledCircle(screen, float32(x+size*0.42), float32(y+size*0.42), float32(size*0.34), primary, true)
	case board.ShapeCylinder:
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(size/2), shadow, true)
		vector.DrawFilledCircle(screen, float32(cx-2), float32(cy-2), float32(size/2-4), primary, true)
		top := []point{{x + 4, y + 4}, {x + size - 4, y + 4}, {x + size - 4, y + 12}, {x + 4, y + 12}}
		r.fillPolygon(screen, rotated(top, cx, cy, b.Rotation), scene.WithAlpha(scene.Brighten(base, 1.3), alpha))
	}
	if b.Connected && b.Shape != board.ShapePyramid {
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), 4, dotColor, true)
	}
}

func square(x, y, size float64) []point {
	return []point{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

func (r *renderer) drawToolbar(screen *ebiten.Image, layout scene.Layout, animating bool) {
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for _, b := range layout.Buttons(animating) {
		vector.DrawFilledRect(screen, float32(b.Rect.X), float32(b.Rect.Y), float32(b.Rect.W), float32(b.Rect.H), buttonColor, true)
		drawCentered(screen, b.Label, b.Rect.X+b.Rect.W/2, b.Rect.Y+b.Rect.H/2+4, white)
	}
}

func (r *renderer) drawFooter(screen *ebiten.Image, layout scene.Layout, snap board.Snapshot) {
	for _, slot := range layout.ShapeSlots() {
		rect := slot.Rect
		vector.DrawFilledRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), surfaceColor, true)
		if slot.Shape == snap.Template.Shape {
			vector.StrokeRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), 2, selectedColor, true)
		}
		preview := board.Block{Shape: slot.Shape, Color: snap.Template.Color}
		r.drawBlock(screen, rect.X+8, rect.Y+8, rect.W-16, preview, 1)
	}
	for _, slot := range layout.ColorSlots() {
		rect := slot.Rect
		c, _ := slot.Color.Lookup()
		vector.DrawFilledRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), scene.RGBA(c.Value), true)
		if slot.Color == snap.Template.Color {
			vector.StrokeRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), 3, selectedColor, true)
		}
	}
}

// drawCentered draws s with its baseline at y, centered on x.
func drawCentered(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	width := font.MeasureString(face, s).Ceil()
	text.Draw(screen, s, face, int(x)-width/2, int(y), clr)
}
