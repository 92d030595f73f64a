package realtime

import (
	"context"
	"sync"
	"time"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// loop is the bookkeeping for one running timing loop.
type loop struct {
	cancel context.CancelFunc
	wake   chan struct{}
}

// RoomStore manages rooms, their broadcasters and their timing loops.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
	loops map[string]*loop
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
		loops: make(map[string]*loop),
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Len reports how many rooms are stored.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Each calls fn for every room's state while holding the read lock; fn must
// not call back into the store.
func (s *RoomStore[T]) Each(fn func(id string, state T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, r := range s.rooms {
		fn(id, r.State)
	}
}

// Delete stops the room's loop, closes its subscribers and forgets it.
func (s *RoomStore[T]) Delete(id string) {
	s.mu.Lock()
	r, ok := s.rooms[id]
	delete(s.rooms, id)
	if l, running := s.loops[id]; running {
		l.cancel()
		delete(s.loops, id)
	}
	s.mu.Unlock()
	if ok && r.hub != nil {
		r.hub.Close()
	}
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are ignored.
func (s *RoomStore[T]) Publish(id string, event string) {
	s.mu.RLock()
	r, ok := s.rooms[id]
	s.mu.RUnlock()
	if !ok || r.hub == nil {
		return
	}
	r.hub.Publish(event)
}

// Broadcaster returns the broadcaster for an existing room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	if r.hub == nil {
		r.hub = NewBroadcaster()
	}
	return r.hub, true
}

// TickFunc is called by RunLoop to determine the next wake time and events to publish.
// stop true means exit the loop.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []string, stop bool)

// RunLoop starts a timing loop for the room. If a loop already exists for id, it is not started again.
// It reports whether a new loop was started.
func (s *RoomStore[T]) RunLoop(id string, getState func() T, tick TickFunc[T]) bool {
	s.mu.Lock()
	if _, ok := s.loops[id]; ok {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{cancel: cancel, wake: make(chan struct{}, 1)}
	s.loops[id] = l
	s.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			// A stopped loop may already have been replaced by a newer one.
			if s.loops[id] == l {
				delete(s.loops, id)
			}
			s.mu.Unlock()
		}()

		for {
			if ctx.Err() != nil {
				return
			}
			state := getState()
			now := time.Now().UTC()
			next, events, stop := tick(state, now)
			for _, e := range events {
				s.Publish(id, e)
			}
			if stop {
				return
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case <-l.wake:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
		}
	}()
	return true
}

// Running reports whether a loop is active for id.
func (s *RoomStore[T]) Running(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loops[id]
	return ok
}

// StopLoop cancels the room's loop, if any. A tick already in progress still
// completes; the loop exits before waiting again.
func (s *RoomStore[T]) StopLoop(id string) {
	s.mu.Lock()
	l, ok := s.loops[id]
	if ok {
		delete(s.loops, id)
	}
	s.mu.Unlock()
	if ok {
		l.cancel()
	}
}

// Wake unblocks the room's loop so it recomputes immediately.
func (s *RoomStore[T]) Wake(id string) {
	s.mu.RLock()
	l, ok := s.loops[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
