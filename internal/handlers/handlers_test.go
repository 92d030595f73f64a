package handlers

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"magblocks/internal/board"
)

func newTestRouter(t *testing.T, splashDuration time.Duration) (*chi.Mux, *board.Store) {
	t.Helper()
	store := board.NewStore(board.DefaultSurface(), splashDuration)
	logger := log.New(io.Discard)
	r := chi.NewRouter()
	NewHomeHandler(store, logger).RegisterRoutes(r)
	NewBoardHandler(store, logger, "").RegisterRoutes(r)
	return r, store
}

func newSession(t *testing.T, store *board.Store) *board.Session {
	t.Helper()
	return store.CreateSession(time.Now().UTC())
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHome_CreatesBoardAndSetsCookie(t *testing.T) {
	r, store := newTestRouter(t, time.Second)

	rec := get(t, r, "/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/board/") {
		t.Fatalf("Location %q", loc)
	}
	id := strings.TrimPrefix(loc, "/board/")
	if _, ok := store.GetSession(id); !ok {
		t.Fatal("redirect target is not a live board")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName || cookies[0].Value != id {
		t.Fatalf("cookies %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again := httptest.NewRecorder()
	r.ServeHTTP(again, req)
	if got := again.Header().Get("Location"); got != loc {
		t.Errorf("returning visitor sent to %q, want %q", got, loc)
	}
	if store.Len() != 1 {
		t.Errorf("Len %d, want 1", store.Len())
	}
}

func TestHome_StaleCookieGetsNewBoard(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "gone"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") == "/board/gone" {
		t.Errorf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if store.Len() != 1 {
		t.Errorf("Len %d, want 1", store.Len())
	}
}

func TestBoardPage(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)

	rec := get(t, r, "/board/"+sess.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		pageTitle,
		`id="splash"`,
		`id="surface"`,
		`id="controls"`,
		`id="template"`,
		`data-id="1"`,
		`data-phase="fading_in"`,
		"Total de blocos",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestUnknownBoardIsNotFound(t *testing.T) {
	r, _ := newTestRouter(t, time.Second)
	if rec := get(t, r, "/board/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("page status %d, want 404", rec.Code)
	}
	if rec := postForm(t, r, "/board/missing/shuffle", nil); rec.Code != http.StatusNotFound {
		t.Errorf("shuffle status %d, want 404", rec.Code)
	}
	if rec := get(t, r, "/board/missing/stream"); rec.Code != http.StatusNotFound {
		t.Errorf("stream status %d, want 404", rec.Code)
	}
}

func TestAddBlock_ThenSurfaceShowsIt(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)

	rec := postForm(t, r, "/board/"+sess.ID+"/blocks", url.Values{"shape": {"sphere"}, "color": {"green"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", rec.Code)
	}
	snap := sess.Board.Snapshot()
	if len(snap.Blocks) != 7 {
		t.Fatalf("len %d, want 7", len(snap.Blocks))
	}
	added := snap.Blocks[6]
	if added.Shape != board.ShapeSphere || added.Color != board.ColorGreen {
		t.Errorf("added %+v", added)
	}

	surface := get(t, r, "/board/"+sess.ID+"/surface").Body.String()
	if !strings.Contains(surface, `data-id="`+added.ID+`"`) {
		t.Error("surface fragment does not contain the new block")
	}
}

func TestAddBlock_DefaultsToTemplate(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	postForm(t, r, "/board/"+sess.ID+"/template", url.Values{"shape": {"cylinder"}, "color": {"purple"}})
	postForm(t, r, "/board/"+sess.ID+"/blocks", nil)

	blocks := sess.Board.Snapshot().Blocks
	last := blocks[len(blocks)-1]
	if last.Shape != board.ShapeCylinder || last.Color != board.ColorPurple {
		t.Errorf("added %+v, want purple cylinder", last)
	}
}

func TestAddBlock_RejectsInvalidInput(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	if rec := postForm(t, r, "/board/"+sess.ID+"/blocks", url.Values{"shape": {"hexagon"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("shape status %d, want 400", rec.Code)
	}
	if rec := postForm(t, r, "/board/"+sess.ID+"/blocks", url.Values{"color": {"pink"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("color status %d, want 400", rec.Code)
	}
	if sess.Board.Len() != 6 {
		t.Errorf("len %d, want 6", sess.Board.Len())
	}
}

func TestDragGesture(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	base := "/board/" + sess.ID

	if rec := postForm(t, r, base+"/drag/begin", url.Values{"block": {"1"}}); rec.Code != http.StatusNoContent {
		t.Fatalf("begin status %d", rec.Code)
	}
	postForm(t, r, base+"/drag/move", url.Values{"x": {"300"}, "y": {"250"}})
	got, _ := sess.Board.Block("1")
	if got.Position != (board.Point{X: 276, Y: 226}) {
		t.Errorf("position %+v, want 276,226", got.Position)
	}

	surface := get(t, r, base+"/surface").Body.String()
	if !strings.Contains(surface, "transition:none") {
		t.Error("dragged block should have no transition")
	}

	if rec := postForm(t, r, base+"/drag/move", url.Values{"x": {"abc"}, "y": {"1"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad x status %d, want 400", rec.Code)
	}
	if rec := postForm(t, r, base+"/drag/move", url.Values{"x": {"NaN"}, "y": {"1"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("NaN status %d, want 400", rec.Code)
	}
	if rec := postForm(t, r, base+"/drag/begin", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing block status %d, want 400", rec.Code)
	}

	postForm(t, r, base+"/drag/end", nil)
	if _, dragging := sess.Board.Dragging(); dragging {
		t.Error("drag should have ended")
	}
	postForm(t, r, base+"/drag/move", url.Values{"x": {"10"}, "y": {"10"}})
	got, _ = sess.Board.Block("1")
	if got.Position != (board.Point{X: 276, Y: 226}) {
		t.Error("move after end should be ignored")
	}
}

func TestDragGesture_InOrderKeepsLastMove(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	base := "/board/" + sess.ID

	// A move that lands before begin has nothing to drag.
	postForm(t, r, base+"/drag/move", url.Values{"x": {"50"}, "y": {"50"}})
	if got, _ := sess.Board.Block("6"); got.Position != (board.Point{X: 150, Y: 300}) {
		t.Fatalf("move before begin changed position to %+v", got.Position)
	}

	hub, _ := store.Broadcaster(sess.ID)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	postForm(t, r, base+"/drag/begin", url.Values{"block": {"6"}})
	for _, p := range [][2]string{{"100", "100"}, {"200", "150"}, {"260", "220"}} {
		if rec := postForm(t, r, base+"/drag/move", url.Values{"x": {p[0]}, "y": {p[1]}}); rec.Code != http.StatusNoContent {
			t.Fatalf("move status %d", rec.Code)
		}
	}
	postForm(t, r, base+"/drag/end", nil)

	got, _ := sess.Board.Block("6")
	if got.Position != (board.Point{X: 236, Y: 196}) {
		t.Errorf("position %+v, want the last move 236,196", got.Position)
	}
	// begin + three moves + end each pushed a board event.
	for i := 0; i < 5; i++ {
		select {
		case e := <-sub:
			if e != board.EventBoard {
				t.Errorf("event %d = %q, want board", i, e)
			}
		case <-time.After(time.Second):
			t.Fatalf("only %d board events", i)
		}
	}
	surface := get(t, r, base+"/surface").Body.String()
	if !strings.Contains(surface, "left:236px;top:196px;") {
		t.Error("surface after end should draw the block at the last move")
	}
	if strings.Contains(surface, "transition:none") {
		t.Error("no block should be marked as dragged after end")
	}
}

func TestRotateAndRemove(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	base := "/board/" + sess.ID

	if rec := postForm(t, r, base+"/blocks/5/rotate", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("rotate status %d", rec.Code)
	}
	got, _ := sess.Board.Block("5")
	if got.Rotation != 135 {
		t.Errorf("rotation %v, want 135", got.Rotation)
	}
	if rec := postForm(t, r, base+"/blocks/nope/rotate", nil); rec.Code != http.StatusNoContent {
		t.Errorf("unknown block status %d, want 204", rec.Code)
	}

	postForm(t, r, base+"/blocks/5/remove", nil)
	if sess.Board.Len() != 5 {
		t.Errorf("len %d, want 5", sess.Board.Len())
	}
	if rec := postForm(t, r, base+"/blocks/5/remove", nil); rec.Code != http.StatusNoContent {
		t.Errorf("second remove status %d, want 204", rec.Code)
	}
}

func TestBulkActions(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	base := "/board/" + sess.ID

	postForm(t, r, base+"/clear", nil)
	if sess.Board.Len() != 0 {
		t.Fatalf("len %d after clear", sess.Board.Len())
	}
	if body := get(t, r, base+"/surface").Body.String(); !strings.Contains(body, emptyHint) {
		t.Error("empty surface should show the hint")
	}

	postForm(t, r, base+"/reset", nil)
	if sess.Board.Len() != 6 {
		t.Errorf("len %d after reset, want 6", sess.Board.Len())
	}

	postForm(t, r, base+"/shuffle", nil)
	for _, b := range sess.Board.Snapshot().Blocks {
		if b.Position.X < 100 || b.Position.X >= 500 {
			t.Errorf("shuffled x %v outside spawn region", b.Position.X)
		}
	}

	postForm(t, r, base+"/animation", nil)
	if !sess.Board.Animating() {
		t.Error("animation should be on")
	}
	if body := get(t, r, base+"/surface").Body.String(); !strings.Contains(body, "animate-pulse") {
		t.Error("animating surface should pulse")
	}
}

func TestSelectTemplate(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	base := "/board/" + sess.ID

	postForm(t, r, base+"/template", url.Values{"shape": {"pyramid"}})
	if got := sess.Board.Template(); got.Shape != board.ShapePyramid || got.Color != board.ColorRed {
		t.Errorf("template %+v", got)
	}
	postForm(t, r, base+"/template", url.Values{"color": {"#3182CE"}})
	if got := sess.Board.Template(); got.Color != board.ColorBlue {
		t.Errorf("template %+v", got)
	}
	if rec := postForm(t, r, base+"/template", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("empty template status %d, want 400", rec.Code)
	}
	if rec := postForm(t, r, base+"/template", url.Values{"shape": {"star"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad shape status %d, want 400", rec.Code)
	}
}

func TestFormPostRedirects(t *testing.T) {
	r, store := newTestRouter(t, time.Second)
	sess := newSession(t, store)
	req := httptest.NewRequest(http.MethodPost, "/board/"+sess.ID+"/shuffle", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/board/"+sess.ID {
		t.Errorf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestStream_SplashThenBoard(t *testing.T) {
	r, store := newTestRouter(t, 80*time.Millisecond)
	sess := newSession(t, store)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/board/"+sess.ID+"/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type %q", ct)
	}

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	boards := 0
	for boards < 2 && scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
			if name == board.EventBoard {
				boards++
			}
		}
	}
	if boards < 2 {
		t.Fatalf("events %v, want a second board push after the splash", events)
	}

	initial := []string{board.EventSplash, board.EventBoard, board.EventControls, board.EventTemplate}
	for i, want := range initial {
		if i >= len(events) || events[i] != want {
			t.Fatalf("initial events %v, want prefix %v", events, initial)
		}
	}
	if sess.SplashView().Visible {
		t.Error("overlay should be gone after the board push")
	}
}

func TestStream_CloseStopsSplash(t *testing.T) {
	r, store := newTestRouter(t, time.Hour)
	sess := newSession(t, store)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/board/"+sess.ID+"/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	reader := bufio.NewReader(resp.Body)
	if _, err := reader.ReadString('\n'); err != nil {
		t.Fatal(err)
	}
	sp := sess.Splash()
	if sp == nil {
		t.Fatal("stream should start a splash")
	}
	cancel()
	resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !sp.Stopped() {
		if time.Now().After(deadline) {
			t.Fatal("closing the stream should stop the splash")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
