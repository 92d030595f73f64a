package desktop

import (
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"magblocks/internal/desktop/scene"
	"magblocks/internal/splash"
)

var (
	splashTop    = color.RGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}
	splashBottom = color.RGBA{R: 0x58, G: 0x1c, B: 0x87, A: 0xff}
)

// splashFade is how long the overlay takes to reach its target opacity.
const splashFade = time.Second

type splashState struct {
	sm       *StateMachine
	layout   scene.Layout
	clock    *scene.FrameClock
	splash   *splash.Splash
	alpha    float64
	finished bool
	logger   *log.Logger
}

func newSplashState(sm *StateMachine, layout scene.Layout, clock *scene.FrameClock, duration time.Duration, onFinished func(), logger *log.Logger) *splashState {
	s := &splashState{sm: sm, layout: layout, clock: clock, logger: logger}
	s.splash = splash.New(duration, func() {
		s.finished = true
		onFinished()
	})
	return s
}

func (s *splashState) Enter() {
	s.splash.Start(s.clock.Now())
}

func (s *splashState) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if s.splash.Advance(s.clock.Now()) {
		s.logger.Debug("splash phase", "phase", s.splash.Phase())
	}
	if s.finished {
		return nil
	}
	view := s.splash.View()
	target := 0.0
	if view.Opaque && !view.FadeOut {
		target = 1
	}
	step := float64(s.clock.FrameDuration()) / float64(splashFade)
	switch {
	case s.alpha < target:
		s.alpha = min(target, s.alpha+step)
	case s.alpha > target:
		s.alpha = max(target, s.alpha-step)
	}
	return nil
}

func (s *splashState) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	w, h := s.layout.ScreenSize()
	// Two bands approximate the diagonal gradient.
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h)/2, scene.WithAlpha(splashTop, s.alpha), false)
	vector.DrawFilledRect(screen, 0, float32(h)/2, float32(w), float32(h)/2, scene.WithAlpha(splashBottom, s.alpha), false)

	textColor := scene.WithAlpha(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, s.alpha)
	drawCentered(screen, windowTitle, float64(w)/2, float64(h)/2-20, textColor)
	drawCentered(screen, "Brinquedo educativo com formas geométricas", float64(w)/2, float64(h)/2+10, textColor)
	drawCentered(screen, "coloridas e conexões magnéticas", float64(w)/2, float64(h)/2+28, textColor)
}

// Exit tears the splash down so a window closed mid-sequence never fires
// the completion callback.
func (s *splashState) Exit() {
	s.splash.Stop()
}
