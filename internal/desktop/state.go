package desktop

import "github.com/hajimehoshi/ebiten/v2"

// State is one screen of the desktop host.
type State interface {
	Enter()
	Update() error
	Draw(screen *ebiten.Image)
	Exit()
}

// StateMachine switches between states, calling Exit on the old one and
// Enter on the new one.
type StateMachine struct {
	current State
}

func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

func (sm *StateMachine) SetState(next State) {
	if sm.current != nil {
		sm.current.Exit()
	}
	sm.current = next
	if sm.current != nil {
		sm.current.Enter()
	}
}

func (sm *StateMachine) Update() error {
	if sm.current == nil {
		return nil
	}
	return sm.current.Update()
}

func (sm *StateMachine) Draw(screen *ebiten.Image) {
	if sm.current != nil {
		sm.current.Draw(screen)
	}
}

// Current returns the active state.
func (sm *StateMachine) Current() State {
	return sm.current
}
