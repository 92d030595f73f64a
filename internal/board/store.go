package board

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"sync"
	"time"

	"magblocks/internal/splash"
	"magblocks/pkg/realtime"
)

// Events published to a session's subscribers. Each names the page region
// that must be re-rendered.
const (
	EventSplash   = "splash"
	EventBoard    = "board"
	EventControls = "controls"
	EventTemplate = "template"
)

// Store holds sessions and delegates to realtime.RoomStore for lookup, broadcast and timing.
type Store struct {
	r              *realtime.RoomStore[*Session]
	surface        Surface
	splashDuration time.Duration
	opts           []Option
}

// NewStore creates an in-memory session store. Every new session gets a
// board on surface; opts are applied to each board.
func NewStore(surface Surface, splashDuration time.Duration, opts ...Option) *Store {
	return &Store{
		r:              realtime.NewRoomStore[*Session](),
		surface:        surface,
		splashDuration: splashDuration,
		opts:           opts,
	}
}

// Session is one browser's board plus its splash sequence.
type Session struct {
	ID        string
	CreatedAt time.Time
	Board     *Board

	// splashMu serializes starting and stopping the splash so exactly one
	// loop drives the current one.
	splashMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
	splash   *splash.Splash
}

// CreateSession registers a session holding a fresh board.
func (s *Store) CreateSession(now time.Time) *Session {
	sess := &Session{
		ID:        newID(),
		CreatedAt: now,
		Board:     NewBoard(s.surface, s.opts...),
		lastSeen:  now,
	}
	s.r.Create(sess.ID, sess)
	return sess
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok || room.State == nil {
		return nil, false
	}
	return room.State, true
}

// Len reports how many sessions are live.
func (s *Store) Len() int {
	return s.r.Len()
}

// Delete stops a session's splash and forgets it.
func (s *Store) Delete(id string) {
	if sess, ok := s.GetSession(id); ok {
		sess.stopSplash()
	}
	s.r.Delete(id)
}

// Broadcaster returns the SSE broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session update.
func (s *Store) Publish(id string, events ...string) {
	for _, e := range events {
		s.r.Publish(id, e)
	}
}

// StartSplash replaces any running splash for the session with a new one
// starting at now, and drives it from the session's timing loop. onFinished
// runs once when the splash completes; it is never called for a splash that
// was stopped or replaced first.
func (s *Store) StartSplash(id string, now time.Time, onFinished func()) bool {
	sess, ok := s.GetSession(id)
	if !ok {
		return false
	}
	sess.splashMu.Lock()
	defer sess.splashMu.Unlock()
	s.r.StopLoop(id)

	sp := splash.New(s.splashDuration, onFinished)
	sess.mu.Lock()
	if sess.splash != nil {
		sess.splash.Stop()
	}
	sess.splash = sp
	sess.mu.Unlock()
	sp.Start(now)

	getState := func() *Session {
		room, ok := s.r.Get(id)
		if !ok {
			return nil
		}
		return room.State
	}
	tick := func(state *Session, now time.Time) (time.Time, []string, bool) {
		if state == nil || state.Splash() != sp {
			return time.Time{}, nil, true
		}
		var events []string
		if sp.Advance(now) {
			events = append(events, EventSplash)
			if sp.Phase() == splash.Done {
				events = append(events, EventBoard, EventControls, EventTemplate)
			}
		}
		next, pending := sp.NextWake(now)
		if !pending {
			return time.Time{}, events, true
		}
		return next, events, false
	}
	for !s.r.RunLoop(id, getState, tick) {
		s.r.StopLoop(id)
	}
	return true
}

// StopSplash tears down the session's splash, e.g. when its page goes away
// before the sequence completes.
func (s *Store) StopSplash(id string) {
	sess, ok := s.GetSession(id)
	if !ok {
		s.r.StopLoop(id)
		return
	}
	sess.splashMu.Lock()
	defer sess.splashMu.Unlock()
	s.r.StopLoop(id)
	sess.stopSplash()
}

// ReleaseSplash stops sp if it is still the session's current splash and has
// not finished. It reports whether it stopped anything; a splash started
// since then is left running.
func (s *Store) ReleaseSplash(id string, sp *splash.Splash) bool {
	sess, ok := s.GetSession(id)
	if !ok || sp == nil {
		return false
	}
	sess.splashMu.Lock()
	defer sess.splashMu.Unlock()
	if sess.Splash() != sp || sp.Stopped() || sp.Phase() == splash.Done {
		return false
	}
	s.r.StopLoop(id)
	sp.Stop()
	return true
}

// PruneIdle deletes sessions not seen for maxIdle and returns how many were removed.
func (s *Store) PruneIdle(now time.Time, maxIdle time.Duration) int {
	var stale []string
	s.r.Each(func(id string, sess *Session) {
		if sess != nil && now.Sub(sess.LastSeen()) > maxIdle {
			stale = append(stale, id)
		}
	})
	for _, id := range stale {
		s.Delete(id)
	}
	return len(stale)
}

// Splash returns the current splash, or nil if none was started.
func (sess *Session) Splash() *splash.Splash {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.splash
}

// SplashView returns how the overlay should be drawn. Without a running
// splash the overlay is hidden.
func (sess *Session) SplashView() splash.View {
	sp := sess.Splash()
	if sp == nil || sp.Stopped() {
		return splash.View{Phase: splash.Done}
	}
	return sp.View()
}

// Touch records activity on the session.
func (sess *Session) Touch(now time.Time) {
	sess.mu.Lock()
	if now.After(sess.lastSeen) {
		sess.lastSeen = now
	}
	sess.mu.Unlock()
}

// LastSeen returns the time of the latest activity.
func (sess *Session) LastSeen() time.Time {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.lastSeen
}

func (sess *Session) stopSplash() {
	sess.mu.Lock()
	sp := sess.splash
	sess.mu.Unlock()
	if sp != nil {
		sp.Stop()
	}
}

func newID() string {
	// 10 bytes -> 16 chars of base32, short and url-safe.
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	encoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(encoder.EncodeToString(buf))
}
