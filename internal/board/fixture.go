package board

// Fixture returns a fresh copy of the six-block starting layout.
func Fixture() []Block {
	return []Block{
		{ID: "1", Shape: ShapeCube, Color: ColorRed, Position: Point{X: 200, Y: 200}, Connected: true},
		{ID: "2", Shape: ShapeCube, Color: ColorBlue, Position: Point{X: 200, Y: 150}, Connected: true},
		{ID: "3", Shape: ShapePyramid, Color: ColorYellow, Position: Point{X: 200, Y: 100}, Connected: true},
		{ID: "4", Shape: ShapeSphere, Color: ColorGreen, Position: Point{X: 350, Y: 180}},
		{ID: "5", Shape: ShapeCylinder, Color: ColorOrange, Position: Point{X: 400, Y: 250}, Rotation: 45},
		{ID: "6", Shape: ShapeCube, Color: ColorPurple, Position: Point{X: 150, Y: 300}},
	}
}
