package board

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"magblocks/internal/splash"
)

func TestStore_CreateSession_GetSession(t *testing.T) {
	s := NewStore(DefaultSurface(), time.Second)
	now := time.Now().UTC()
	sess := s.CreateSession(now)
	if sess == nil || sess.ID == "" {
		t.Fatal("CreateSession returned no id")
	}
	if sess.Board.Len() != 6 {
		t.Errorf("new board has %d blocks, want 6", sess.Board.Len())
	}

	got, ok := s.GetSession(sess.ID)
	if !ok {
		t.Fatal("GetSession returned false for existing session")
	}
	if got != sess {
		t.Error("GetSession returned different pointer")
	}
	if _, ok := s.GetSession("nonexistent"); ok {
		t.Error("GetSession should return false for missing ID")
	}

	other := s.CreateSession(now)
	if other.ID == sess.ID {
		t.Error("sessions should get distinct ids")
	}
	if other.Board == sess.Board {
		t.Error("sessions should not share a board")
	}
}

func TestStore_Publish(t *testing.T) {
	s := NewStore(DefaultSurface(), time.Second)
	sess := s.CreateSession(time.Now().UTC())
	hub, ok := s.Broadcaster(sess.ID)
	if !ok {
		t.Fatal("Broadcaster returned false for existing session")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish(sess.ID, EventBoard, EventControls)
	if got := <-ch; got != EventBoard {
		t.Errorf("got %q, want board", got)
	}
	if got := <-ch; got != EventControls {
		t.Errorf("got %q, want controls", got)
	}
}

func TestStore_SplashRunsToCompletion(t *testing.T) {
	s := NewStore(DefaultSurface(), 60*time.Millisecond)
	sess := s.CreateSession(time.Now().UTC())
	hub, _ := s.Broadcaster(sess.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	var calls int32
	finished := make(chan struct{})
	if !s.StartSplash(sess.ID, time.Now().UTC(), func() {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(finished)
		}
	}) {
		t.Fatal("StartSplash should succeed for an existing session")
	}

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("splash never finished")
	}

	sawBoard := false
	deadline := time.After(time.Second)
	for !sawBoard {
		select {
		case e := <-ch:
			if e == EventBoard {
				sawBoard = true
			}
		case <-deadline:
			t.Fatal("no board event after splash finished")
		}
	}
	if sess.SplashView().Visible {
		t.Error("overlay should be hidden once done")
	}
	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("onFinished called %d times, want 1", n)
	}
}

func TestStore_StopSplashCancelsCallback(t *testing.T) {
	s := NewStore(DefaultSurface(), 80*time.Millisecond)
	sess := s.CreateSession(time.Now().UTC())

	var calls int32
	s.StartSplash(sess.ID, time.Now().UTC(), func() { atomic.AddInt32(&calls, 1) })
	if !sess.SplashView().Visible {
		t.Error("overlay should be visible right after start")
	}
	s.StopSplash(sess.ID)

	time.Sleep(200 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("onFinished called %d times after StopSplash, want 0", n)
	}
	if sess.SplashView().Visible {
		t.Error("stopped splash should not be drawn")
	}
}

func TestStore_RestartSplashReplacesPrevious(t *testing.T) {
	s := NewStore(DefaultSurface(), 50*time.Millisecond)
	sess := s.CreateSession(time.Now().UTC())

	var first, second int32
	s.StartSplash(sess.ID, time.Now().UTC(), func() { atomic.AddInt32(&first, 1) })
	old := sess.Splash()
	s.StartSplash(sess.ID, time.Now().UTC(), func() { atomic.AddInt32(&second, 1) })

	if !old.Stopped() {
		t.Error("replaced splash should be stopped")
	}
	time.Sleep(250 * time.Millisecond)
	if atomic.LoadInt32(&first) != 0 {
		t.Error("replaced splash must not finish")
	}
	if atomic.LoadInt32(&second) != 1 {
		t.Errorf("new splash finished %d times, want 1", atomic.LoadInt32(&second))
	}
}

func TestStore_ConcurrentStartSplashLastOneFinishes(t *testing.T) {
	s := NewStore(DefaultSurface(), 40*time.Millisecond)
	for round := 0; round < 20; round++ {
		sess := s.CreateSession(time.Now().UTC())
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.StartSplash(sess.ID, time.Now().UTC(), nil)
			}()
		}
		wg.Wait()

		current := sess.Splash()
		deadline := time.Now().Add(2 * time.Second)
		for current.Phase() != splash.Done {
			if time.Now().After(deadline) {
				t.Fatalf("round %d: current splash stuck in %s", round, current.Phase())
			}
			time.Sleep(5 * time.Millisecond)
		}
		s.Delete(sess.ID)
	}
}

func TestStore_ReleaseSplashKeepsNewerSplash(t *testing.T) {
	s := NewStore(DefaultSurface(), 80*time.Millisecond)
	sess := s.CreateSession(time.Now().UTC())

	s.StartSplash(sess.ID, time.Now().UTC(), nil)
	first := sess.Splash()
	s.StartSplash(sess.ID, time.Now().UTC(), nil)
	second := sess.Splash()

	if s.ReleaseSplash(sess.ID, first) {
		t.Error("releasing a replaced splash should do nothing")
	}
	if second.Stopped() {
		t.Fatal("newer splash was stopped")
	}
	if !s.ReleaseSplash(sess.ID, second) {
		t.Error("releasing the current unfinished splash should stop it")
	}
	if !second.Stopped() || sess.SplashView().Visible {
		t.Error("released splash should be stopped and hidden")
	}
	if s.ReleaseSplash(sess.ID, second) {
		t.Error("second release should be a no-op")
	}
}

func TestStore_StartSplashUnknownSession(t *testing.T) {
	s := NewStore(DefaultSurface(), time.Second)
	if s.StartSplash("missing", time.Now().UTC(), nil) {
		t.Error("StartSplash should fail for an unknown session")
	}
	s.StopSplash("missing")
}

func TestSession_SplashViewWithoutSplash(t *testing.T) {
	s := NewStore(DefaultSurface(), time.Second)
	sess := s.CreateSession(time.Now().UTC())
	v := sess.SplashView()
	if v.Visible || v.Phase != splash.Done {
		t.Errorf("view %+v, want hidden", v)
	}
}

func TestStore_PruneIdle(t *testing.T) {
	s := NewStore(DefaultSurface(), time.Second)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stale := s.CreateSession(now)
	fresh := s.CreateSession(now)
	fresh.Touch(now.Add(50 * time.Minute))

	removed := s.PruneIdle(now.Add(time.Hour), 30*time.Minute)
	if removed != 1 {
		t.Errorf("removed %d, want 1", removed)
	}
	if _, ok := s.GetSession(stale.ID); ok {
		t.Error("stale session should be pruned")
	}
	if _, ok := s.GetSession(fresh.ID); !ok {
		t.Error("fresh session should be kept")
	}
	if s.Len() != 1 {
		t.Errorf("Len %d, want 1", s.Len())
	}
}
