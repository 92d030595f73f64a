package viewmodel

// BoardPage holds data for the full board page.
type BoardPage struct {
	Title    string
	Subtitle string
	BoardID  string
	ShareURL string
	Splash   Splash
	Surface  Surface
	Controls Controls
	Template TemplatePanel
}

// Splash holds the overlay state. Phase is one of fading_in, holding,
// fading_out or done.
type Splash struct {
	Title    string
	Subtitle string
	Phase    string
	Visible  bool
	Opaque   bool
	FadeOut  bool
}

// Surface holds data for the surface fragment.
type Surface struct {
	BoardID   string
	Width     int
	Height    int
	BlockSize int
	Animating bool
	Blocks    []Block
	EmptyHint string
}

// Block is one positioned shape with its precomputed inline styles.
type Block struct {
	ID         string
	Shape      string
	ColorName  string
	Style      string // container: position, rotation, transition, filter, z-index
	BodyStyle  string // the shape itself
	CapStyle   string // cylinder top, empty for other shapes
	ShowDot    bool
	Dragging   bool
	RemoveText string
}

// Controls holds data for the toolbar and the block counter.
type Controls struct {
	BoardID      string
	Count        int
	CountLabel   string
	Animating    bool
	AnimateLabel string
}

// Option is a selectable template entry.
type Option struct {
	Value    string
	Label    string
	Icon     string
	Swatch   string
	Selected bool
}

// TemplatePanel holds data for the shape and color pickers.
type TemplatePanel struct {
	BoardID string
	Shapes  []Option
	Colors  []Option
}
