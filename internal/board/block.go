package board

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownShape is returned when a shape name is not one of Shapes.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrUnknownColor is returned when a color id is not in Palette.
	ErrUnknownColor = errors.New("unknown color")
)

// Shape is the geometric form of a block.
type Shape string

const (
	ShapeCube     Shape = "cube"
	ShapePyramid  Shape = "pyramid"
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
)

// ShapeInfo describes a shape for the template picker.
type ShapeInfo struct {
	Shape Shape
	Name  string
	Icon  string
}

// Shapes lists every shape in picker order.
var Shapes = []ShapeInfo{
	{Shape: ShapeCube, Name: "Cubo", Icon: "⬜"},
	{Shape: ShapePyramid, Name: "Pirâmide", Icon: "🔺"},
	{Shape: ShapeSphere, Name: "Esfera", Icon: "⚪"},
	{Shape: ShapeCylinder, Name: "Cilindro", Icon: "🟡"},
}

// Valid reports whether s is one of the known shapes.
func (s Shape) Valid() bool {
	for _, info := range Shapes {
		if info.Shape == s {
			return true
		}
	}
	return false
}

// ParseShape resolves a shape name, ignoring case and surrounding space.
func ParseShape(value string) (Shape, error) {
	s := Shape(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", ErrUnknownShape
	}
	return s, nil
}

// ColorID names one palette entry.
type ColorID string

const (
	ColorRed    ColorID = "red"
	ColorBlue   ColorID = "blue"
	ColorYellow ColorID = "yellow"
	ColorGreen  ColorID = "green"
	ColorOrange ColorID = "orange"
	ColorPurple ColorID = "purple"
)

// Color is a palette entry: the primary hue and the gradient-end shadow hue.
type Color struct {
	ID     ColorID
	Name   string
	Value  string
	Shadow string
}

// Palette is the fixed set of block colors, in picker order.
var Palette = []Color{
	{ID: ColorRed, Name: "Vermelho", Value: "#E53E3E", Shadow: "#C53030"},
	{ID: ColorBlue, Name: "Azul", Value: "#3182CE", Shadow: "#2B6CB0"},
	{ID: ColorYellow, Name: "Amarelo", Value: "#F6E05E", Shadow: "#ECC94B"},
	{ID: ColorGreen, Name: "Verde", Value: "#38A169", Shadow: "#2F855A"},
	{ID: ColorOrange, Name: "Laranja", Value: "#FF8C00", Shadow: "#FF7F00"},
	{ID: ColorPurple, Name: "Roxo", Value: "#805AD5", Shadow: "#6B46C1"},
}

// Lookup returns the palette entry for id.
func (id ColorID) Lookup() (Color, bool) {
	for _, c := range Palette {
		if c.ID == id {
			return c, true
		}
	}
	return Color{}, false
}

// Valid reports whether id is in the palette.
func (id ColorID) Valid() bool {
	_, ok := id.Lookup()
	return ok
}

// ParseColor resolves a color by id ("red") or by hex value ("#E53E3E").
func ParseColor(value string) (ColorID, error) {
	v := strings.TrimSpace(value)
	for _, c := range Palette {
		if strings.EqualFold(v, string(c.ID)) || strings.EqualFold(v, c.Value) {
			return c.ID, nil
		}
	}
	return "", ErrUnknownColor
}

// Point is a position in surface-local pixels.
type Point struct {
	X float64
	Y float64
}

// Block is one shape instance on the surface.
type Block struct {
	ID        string
	Shape     Shape
	Color     ColorID
	Position  Point
	Rotation  float64 // degrees, accumulates without normalization
	Connected bool    // decorative only, never derived from adjacency
}

// Surface is the bounded area blocks live on.
type Surface struct {
	Width     float64
	Height    float64
	BlockSize float64
}

const (
	DefaultWidth     = 600
	DefaultHeight    = 500
	DefaultBlockSize = 48

	// spawnInset keeps newly placed and shuffled blocks away from the edges.
	spawnInset = 100
)

// DefaultSurface is the 600x500 surface with 48px blocks.
func DefaultSurface() Surface {
	return Surface{Width: DefaultWidth, Height: DefaultHeight, BlockSize: DefaultBlockSize}
}

// MaxX is the largest x a block may occupy.
func (s Surface) MaxX() float64 {
	return maxFloat(0, s.Width-s.BlockSize)
}

// MaxY is the largest y a block may occupy.
func (s Surface) MaxY() float64 {
	return maxFloat(0, s.Height-s.BlockSize)
}

// Clamp keeps p inside [0, MaxX] x [0, MaxY].
func (s Surface) Clamp(p Point) Point {
	return Point{
		X: clampFloat(p.X, 0, s.MaxX()),
		Y: clampFloat(p.Y, 0, s.MaxY()),
	}
}

// GrabOffset is subtracted from the pointer so the block is centered under it.
func (s Surface) GrabOffset() float64 {
	return s.BlockSize / 2
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
