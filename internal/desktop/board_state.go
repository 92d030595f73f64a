package desktop

import (
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"magblocks/internal/board"
	"magblocks/internal/desktop/scene"
)

// Keyboard shortcuts mirror the toolbar.
var shortcuts = map[ebiten.Key]scene.Action{
	ebiten.KeyS:     scene.ActionShuffle,
	ebiten.KeyR:     scene.ActionReset,
	ebiten.KeyC:     scene.ActionClear,
	ebiten.KeyA:     scene.ActionAnimate,
	ebiten.KeySpace: scene.ActionAdd,
}

var shapeKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

type boardState struct {
	board   *board.Board
	layout  scene.Layout
	clock   *scene.FrameClock
	gesture scene.Gesture
	hover   string
	logger  *log.Logger
	r       *renderer
}

func newBoardState(b *board.Board, layout scene.Layout, clock *scene.FrameClock, logger *log.Logger) *boardState {
	return &boardState{board: b, layout: layout, clock: clock, logger: logger, r: newRenderer()}
}

func (s *boardState) Enter() {
	s.logger.Debug("board ready", "blocks", s.board.Len())
}

func (s *boardState) Exit() {
	s.board.EndDrag()
}

func (s *boardState) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for key, action := range shortcuts {
		if inpututil.IsKeyJustPressed(key) {
			s.apply(action)
		}
	}
	for i, key := range shapeKeys {
		if i < len(board.Shapes) && inpututil.IsKeyJustPressed(key) {
			s.board.SelectShape(board.Shapes[i].Shape)
		}
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	sx, sy, onSurface := s.layout.ToSurface(x, y)
	snap := s.board.Snapshot()

	// The remove handle pokes out of the block's box; pointing at it keeps
	// the block hovered.
	prev := s.hover
	s.hover = ""
	if onSurface {
		if b, ok := s.board.Block(prev); ok && scene.HitRemove(b, snap.Surface.BlockSize, sx, sy) {
			s.hover = prev
		} else if b, ok := scene.HitBlock(snap, sx, sy); ok {
			s.hover = b.ID
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.press(snap, x, y, sx, sy, onSurface)
	}
	if s.gesture.Active() && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if s.gesture.Move(sx, sy) {
			s.board.DragTo(sx, sy)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if id, click := s.gesture.Release(); click {
			s.board.Rotate(id)
		}
		s.board.EndDrag()
	}
	return nil
}

func (s *boardState) press(snap board.Snapshot, x, y, sx, sy float64, onSurface bool) {
	for _, b := range s.layout.Buttons(snap.Animating) {
		if b.Rect.Contains(x, y) {
			s.apply(b.Action)
			return
		}
	}
	for _, slot := range s.layout.ShapeSlots() {
		if slot.Rect.Contains(x, y) {
			s.board.SelectShape(slot.Shape)
			return
		}
	}
	for _, slot := range s.layout.ColorSlots() {
		if slot.Rect.Contains(x, y) {
			s.board.SelectColor(slot.Color)
			return
		}
	}
	if !onSurface {
		return
	}
	if s.hover != "" {
		if b, ok := s.board.Block(s.hover); ok && scene.HitRemove(b, snap.Surface.BlockSize, sx, sy) {
			s.board.RemoveBlock(b.ID)
			s.logger.Debug("block removed", "block", b.ID)
			return
		}
	}
	if b, ok := scene.HitBlock(snap, sx, sy); ok {
		s.gesture.Press(b.ID, sx, sy)
		s.board.BeginDrag(b.ID)
	}
}

func (s *boardState) apply(action scene.Action) {
	switch action {
	case scene.ActionShuffle:
		s.board.Shuffle()
	case scene.ActionReset:
		s.board.Reset()
	case scene.ActionClear:
		s.board.Clear()
	case scene.ActionAnimate:
		s.board.ToggleAnimation()
	case scene.ActionAdd:
		if b, ok := s.board.AddFromTemplate(); ok {
			s.logger.Debug("block added", "block", b.ID, "shape", b.Shape, "color", b.Color)
		}
	}
}

func (s *boardState) Draw(screen *ebiten.Image) {
	s.r.drawBoard(screen, s.layout, s.board.Snapshot(), s.hover, s.clock.Now())
}
