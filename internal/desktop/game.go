// Package desktop runs the board in a native window.
package desktop

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"magblocks/internal/board"
	"magblocks/internal/config"
	"magblocks/internal/desktop/scene"
)

const windowTitle = "Blocos Magnéticos Infantis"

type app struct {
	sm     *StateMachine
	layout scene.Layout
	clock  *scene.FrameClock
}

func (a *app) Update() error {
	a.clock.Tick()
	return a.sm.Update()
}

func (a *app) Draw(screen *ebiten.Image) {
	a.sm.Draw(screen)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.layout.ScreenSize()
}

// Run opens the window and blocks until it is closed.
func Run(cfg config.Config, logger *log.Logger) error {
	layout := scene.NewLayout(cfg.BoardSurface())
	clock := scene.NewFrameClock(time.Now(), ebiten.TPS())
	sm := NewStateMachine()
	b := board.NewBoard(cfg.BoardSurface())

	showBoard := func() {
		sm.SetState(newBoardState(b, layout, clock, logger))
	}
	sm.SetState(newSplashState(sm, layout, clock, cfg.SplashDuration(), showBoard, logger))

	w, h := layout.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(windowTitle)
	err := ebiten.RunGame(&app{sm: sm, layout: layout, clock: clock})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
