package realtime

import (
	"testing"
	"time"
)

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}
	if s.Len() != 1 {
		t.Errorf("Len %d, want 1", s.Len())
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_Each(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("a", 1)
	s.Create("b", 2)
	sum := 0
	s.Each(func(id string, state int) {
		sum += state
	})
	if sum != 3 {
		t.Errorf("sum %d, want 3", sum)
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster returned false for existing room")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}
}

func TestRoomStore_BroadcasterUnknownRoom(t *testing.T) {
	s := NewRoomStore[string]()
	if _, ok := s.Broadcaster("missing"); ok {
		t.Error("Broadcaster should report false for a missing room")
	}
	// Publishing to an unknown room must not create it.
	s.Publish("missing", "board")
	if s.Len() != 0 {
		t.Errorf("Len %d, want 0", s.Len())
	}
}

func TestRoomStore_Delete(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()

	s.Delete("r1")
	if _, ok := s.Get("r1"); ok {
		t.Error("room should be gone after Delete")
	}
	if _, open := <-ch; open {
		t.Error("subscriber should be closed after Delete")
	}
}

func TestRoomStore_Wake_NoPanicWhenNoLoop(t *testing.T) {
	s := NewRoomStore[string]()
	s.Wake("nonexistent")
	s.StopLoop("nonexistent")
}

func TestRoomStore_RunLoopPublishesAndStops(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	calls := 0
	tick := func(state string, now time.Time) (time.Time, []string, bool) {
		calls++
		if calls == 1 {
			return now.Add(5 * time.Millisecond), []string{"first"}, false
		}
		return time.Time{}, []string{"last"}, true
	}
	getState := func() string { return "x" }

	if !s.RunLoop("r1", getState, tick) {
		t.Fatal("RunLoop should start a new loop")
	}
	if s.RunLoop("r1", getState, tick) {
		t.Error("second RunLoop for the same room should not start a loop")
	}

	for _, want := range []string{"first", "last"} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	deadline := time.Now().Add(time.Second)
	for s.Running("r1") {
		if time.Now().After(deadline) {
			t.Fatal("loop should exit after stop")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRoomStore_StopLoopCancelsPendingWake(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	ticked := make(chan struct{}, 4)
	tick := func(state string, now time.Time) (time.Time, []string, bool) {
		ticked <- struct{}{}
		return now.Add(50 * time.Millisecond), []string{"tick"}, false
	}
	s.RunLoop("r1", func() string { return "x" }, tick)
	<-ticked
	<-ch
	s.StopLoop("r1")
	if s.Running("r1") {
		t.Error("Running should be false right after StopLoop")
	}

	select {
	case <-ticked:
		t.Error("tick fired after StopLoop")
	case <-time.After(120 * time.Millisecond):
	}
}

func TestRoomStore_WakeRecomputesEarly(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	ticked := make(chan struct{}, 4)
	tick := func(state string, now time.Time) (time.Time, []string, bool) {
		ticked <- struct{}{}
		return now.Add(time.Hour), nil, false
	}
	s.RunLoop("r1", func() string { return "x" }, tick)
	defer s.StopLoop("r1")
	<-ticked

	s.Wake("r1")
	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("Wake should trigger an immediate tick")
	}
}
