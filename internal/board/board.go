package board

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Template is the (shape, color) pair used for new blocks.
type Template struct {
	Shape Shape
	Color ColorID
}

// DefaultTemplate is a red cube.
var DefaultTemplate = Template{Shape: ShapeCube, Color: ColorRed}

// Board owns one block collection and the UI state around it. Every operation
// runs to completion under the board's lock and reports whether anything
// changed. Unknown block ids are no-ops.
type Board struct {
	mu        sync.Mutex
	surface   Surface
	rng       *rand.Rand
	newID     func() string
	blocks    []Block
	dragging  string
	animating bool
	template  Template
}

// Option configures a Board.
type Option func(*Board)

// WithRand makes placement deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(b *Board) {
		b.rng = rng
	}
}

// WithIDFunc replaces the block id generator.
func WithIDFunc(fn func() string) Option {
	return func(b *Board) {
		b.newID = fn
	}
}

// NewBoard returns a board on surface holding the fixture.
func NewBoard(surface Surface, opts ...Option) *Board {
	b := &Board{
		surface:  surface,
		template: DefaultTemplate,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b.blocks = b.fixture()
	return b
}

// Surface returns the board's bounds.
func (b *Board) Surface() Surface {
	return b.surface
}

// Rotate turns a block by 90 degrees.
func (b *Board) Rotate(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.blocks[i].Rotation += 90
	return true
}

// BeginDrag makes id the active drag target, replacing any previous one.
func (b *Board) BeginDrag(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexLocked(id) < 0 {
		return false
	}
	b.dragging = id
	return true
}

// DragTo moves the active drag target so it is centered under the pointer,
// clamped to the surface. Pointer coordinates are surface-local.
func (b *Board) DragTo(pointerX, pointerY float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dragging == "" {
		return false
	}
	i := b.indexLocked(b.dragging)
	if i < 0 {
		b.dragging = ""
		return false
	}
	offset := b.surface.GrabOffset()
	next := b.surface.Clamp(Point{X: pointerX - offset, Y: pointerY - offset})
	if next == b.blocks[i].Position {
		return false
	}
	b.blocks[i].Position = next
	return true
}

// EndDrag clears the drag target.
func (b *Board) EndDrag() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dragging == "" {
		return false
	}
	b.dragging = ""
	return true
}

// Dragging returns the active drag target, if any.
func (b *Board) Dragging() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dragging, b.dragging != ""
}

// AddBlock appends a block of the given shape and color at a random spawn
// position. Invalid shapes or colors add nothing.
func (b *Board) AddBlock(shape Shape, color ColorID) (Block, bool) {
	if !shape.Valid() || !color.Valid() {
		return Block{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	block := Block{
		ID:       b.freshIDLocked(),
		Shape:    shape,
		Color:    color,
		Position: b.spawnLocked(),
	}
	b.blocks = append(b.blocks, block)
	return block, true
}

// AddFromTemplate adds a block using the selected template.
func (b *Board) AddFromTemplate() (Block, bool) {
	t := b.Template()
	return b.AddBlock(t.Shape, t.Color)
}

// RemoveBlock deletes a block.
func (b *Board) RemoveBlock(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.blocks = append(b.blocks[:i], b.blocks[i+1:]...)
	if b.dragging == id {
		b.dragging = ""
	}
	return true
}

// Shuffle re-randomizes position, rotation and connected for every block.
func (b *Board) Shuffle() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.blocks {
		b.blocks[i].Position = b.spawnLocked()
		b.blocks[i].Rotation = b.rng.Float64() * 360
		b.blocks[i].Connected = b.rng.Float64() > 0.5
	}
	return len(b.blocks) > 0
}

// Reset replaces the collection with the fixture.
func (b *Board) Reset() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocks = b.fixture()
	b.dragging = ""
	return true
}

// Clear empties the collection.
func (b *Board) Clear() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := len(b.blocks) > 0
	b.blocks = nil
	b.dragging = ""
	return changed
}

// ToggleAnimation flips the surface pulse effect and returns the new value.
func (b *Board) ToggleAnimation() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.animating = !b.animating
	return b.animating
}

// Animating reports whether the pulse effect is on.
func (b *Board) Animating() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.animating
}

// SelectShape changes the template shape.
func (b *Board) SelectShape(shape Shape) bool {
	if !shape.Valid() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.template.Shape == shape {
		return false
	}
	b.template.Shape = shape
	return true
}

// SelectColor changes the template color.
func (b *Board) SelectColor(color ColorID) bool {
	if !color.Valid() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.template.Color == color {
		return false
	}
	b.template.Color = color
	return true
}

// Template returns the selected template.
func (b *Board) Template() Template {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.template
}

// Block returns a copy of one block.
func (b *Board) Block(id string) (Block, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return Block{}, false
	}
	return b.blocks[i], true
}

// Len returns the number of blocks.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blocks)
}

// Snapshot captures the state needed for rendering.
type Snapshot struct {
	Surface   Surface
	Blocks    []Block
	Dragging  string
	Animating bool
	Template  Template
}

// Snapshot returns a consistent copy of the board.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Surface:   b.surface,
		Blocks:    append([]Block(nil), b.blocks...),
		Dragging:  b.dragging,
		Animating: b.animating,
		Template:  b.template,
	}
}

// fixture clamps the starting layout into the board's surface.
func (b *Board) fixture() []Block {
	blocks := Fixture()
	for i := range blocks {
		blocks[i].Position = b.surface.Clamp(blocks[i].Position)
	}
	return blocks
}

func (b *Board) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range b.blocks {
		if b.blocks[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) freshIDLocked() string {
	for {
		id := b.newID()
		if id != "" && b.indexLocked(id) < 0 {
			return id
		}
	}
}

// spawnLocked picks a uniform position in the surface inset by spawnInset,
// falling back to the clamped inset origin when the inset leaves no room.
func (b *Board) spawnLocked() Point {
	spanX := b.surface.Width - 2*spawnInset
	spanY := b.surface.Height - 2*spawnInset
	p := Point{X: spawnInset, Y: spawnInset}
	if spanX > 0 {
		p.X += b.rng.Float64() * spanX
	}
	if spanY > 0 {
		p.Y += b.rng.Float64() * spanY
	}
	return b.surface.Clamp(p)
}
