package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"magblocks/internal/board"
	"magblocks/internal/splash"
	"magblocks/internal/viewmodel"
	"magblocks/views/components"
	"magblocks/views/pages"
)

const (
	requestTimeout    = 15 * time.Second
	keepAliveInterval = 25 * time.Second
)

var errInvalidCoordinate = errors.New("invalid coordinate")

type BoardHandler struct {
	store   *board.Store
	logger  *log.Logger
	baseURL string
}

func NewBoardHandler(store *board.Store, logger *log.Logger, baseURL string) *BoardHandler {
	return &BoardHandler{store: store, logger: logger, baseURL: baseURL}
}

func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/board/{id}", func(r chi.Router) {
		// The stream outlives any request timeout.
		r.Get("/stream", h.stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/", h.boardPage)
			r.Get("/surface", h.surfaceFragment)
			r.Post("/blocks", h.addBlock)
			r.Post("/blocks/{blockID}/rotate", h.rotate)
			r.Post("/blocks/{blockID}/remove", h.removeBlock)
			r.Post("/drag/begin", h.beginDrag)
			r.Post("/drag/move", h.dragTo)
			r.Post("/drag/end", h.endDrag)
			r.Post("/shuffle", h.shuffle)
			r.Post("/reset", h.reset)
			r.Post("/clear", h.clear)
			r.Post("/animation", h.toggleAnimation)
			r.Post("/template", h.selectTemplate)
		})
	})
}

// session resolves the board in the URL and records the activity. It writes
// a 404 and returns false for unknown boards.
func (h *BoardHandler) session(w http.ResponseWriter, r *http.Request) (*board.Session, bool) {
	sess, ok := h.store.GetSession(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	sess.Touch(time.Now().UTC())
	return sess, true
}

func (h *BoardHandler) boardPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	setBoardCookie(w, sess.ID)

	snap := sess.Board.Snapshot()
	data := viewmodel.BoardPage{
		Title:    pageTitle,
		Subtitle: pageSubtitle,
		BoardID:  sess.ID,
		ShareURL: h.shareURL(r, sess.ID),
		// Every page load starts with a fresh overlay; the stream drives it from here.
		Splash:   buildSplash(splash.View{Phase: splash.FadingIn, Visible: true}),
		Surface:  buildSurface(sess.ID, snap),
		Controls: buildControls(sess.ID, snap),
		Template: buildTemplate(sess.ID, snap.Template),
	}
	render(w, r, pages.BoardPage(data))
}

func (h *BoardHandler) surfaceFragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	render(w, r, components.Surface(buildSurface(sess.ID, sess.Board.Snapshot())))
}

func (h *BoardHandler) addBlock(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	tmpl := sess.Board.Template()
	shape, color := tmpl.Shape, tmpl.Color
	if v := r.FormValue("shape"); v != "" {
		parsed, err := board.ParseShape(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		shape = parsed
	}
	if v := r.FormValue("color"); v != "" {
		parsed, err := board.ParseColor(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		color = parsed
	}

	block, added := sess.Board.AddBlock(shape, color)
	if added {
		h.logger.Debug("block added", "board", sess.ID, "block", block.ID, "shape", block.Shape, "color", block.Color)
	}
	h.done(w, r, sess, added, board.EventBoard, board.EventControls)
}

func (h *BoardHandler) rotate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	changed := sess.Board.Rotate(chi.URLParam(r, "blockID"))
	h.done(w, r, sess, changed, board.EventBoard)
}

func (h *BoardHandler) removeBlock(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	blockID := chi.URLParam(r, "blockID")
	changed := sess.Board.RemoveBlock(blockID)
	if changed {
		h.logger.Debug("block removed", "board", sess.ID, "block", blockID)
	}
	h.done(w, r, sess, changed, board.EventBoard, board.EventControls)
}

func (h *BoardHandler) beginDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	blockID := strings.TrimSpace(r.FormValue("block"))
	if blockID == "" {
		http.Error(w, "block required", http.StatusBadRequest)
		return
	}
	changed := sess.Board.BeginDrag(blockID)
	h.done(w, r, sess, changed, board.EventBoard)
}

func (h *BoardHandler) dragTo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	x, errX := parseCoordinate(r.FormValue("x"))
	y, errY := parseCoordinate(r.FormValue("y"))
	if errX != nil || errY != nil {
		http.Error(w, errInvalidCoordinate.Error(), http.StatusBadRequest)
		return
	}
	changed := sess.Board.DragTo(x, y)
	h.done(w, r, sess, changed, board.EventBoard)
}

func (h *BoardHandler) endDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	changed := sess.Board.EndDrag()
	h.done(w, r, sess, changed, board.EventBoard)
}

func (h *BoardHandler) shuffle(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	changed := sess.Board.Shuffle()
	h.done(w, r, sess, changed, board.EventBoard)
}

func (h *BoardHandler) reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	changed := sess.Board.Reset()
	h.logger.Debug("board reset", "board", sess.ID)
	h.done(w, r, sess, changed, board.EventBoard, board.EventControls)
}

func (h *BoardHandler) clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	changed := sess.Board.Clear()
	h.done(w, r, sess, changed, board.EventBoard, board.EventControls)
}

func (h *BoardHandler) toggleAnimation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Board.ToggleAnimation()
	h.done(w, r, sess, true, board.EventBoard, board.EventControls)
}

func (h *BoardHandler) selectTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	shapeValue, colorValue := r.FormValue("shape"), r.FormValue("color")
	if shapeValue == "" && colorValue == "" {
		http.Error(w, "shape or color required", http.StatusBadRequest)
		return
	}

	var shape board.Shape
	var color board.ColorID
	if shapeValue != "" {
		parsed, err := board.ParseShape(shapeValue)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		shape = parsed
	}
	if colorValue != "" {
		parsed, err := board.ParseColor(colorValue)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		color = parsed
	}

	changed := false
	if shape != "" && sess.Board.SelectShape(shape) {
		changed = true
	}
	if color != "" && sess.Board.SelectColor(color) {
		changed = true
	}
	h.done(w, r, sess, changed, board.EventTemplate)
}

func (h *BoardHandler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	boardID := sess.ID
	logger := h.logger.With("board", boardID)
	h.store.StartSplash(boardID, time.Now().UTC(), func() {
		logger.Debug("splash finished")
	})
	sp := sess.Splash()
	defer func() {
		// A newer stream may own the splash by now; leave that one running.
		if h.store.ReleaseSplash(boardID, sp) {
			logger.Debug("splash stopped before finishing")
		}
	}()

	send := func(events ...string) {
		snap := sess.Board.Snapshot()
		for _, event := range events {
			switch event {
			case board.EventSplash:
				writeSSE(w, event, renderToString(r, components.SplashOverlay(buildSplash(sess.SplashView()))))
			case board.EventBoard:
				writeSSE(w, event, renderToString(r, components.Surface(buildSurface(boardID, snap))))
			case board.EventControls:
				writeSSE(w, event, renderToString(r, components.Controls(buildControls(boardID, snap))))
			case board.EventTemplate:
				writeSSE(w, event, renderToString(r, components.TemplatePanel(buildTemplate(boardID, snap.Template))))
			}
		}
		flusher.Flush()
	}

	send(board.EventSplash, board.EventBoard, board.EventControls, board.EventTemplate)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				// The board was pruned or deleted.
				return
			}
			send(event)
		case <-keepAlive.C:
			sess.Touch(time.Now().UTC())
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

// done publishes events when the operation changed the board, then answers
// fetch requests with 204 and plain form posts with a redirect.
func (h *BoardHandler) done(w http.ResponseWriter, r *http.Request, sess *board.Session, changed bool, events ...string) {
	if changed {
		h.store.Publish(sess.ID, events...)
	}
	if r.Header.Get("Hx-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/board/"+sess.ID, http.StatusSeeOther)
}

func (h *BoardHandler) shareURL(r *http.Request, boardID string) string {
	if h.baseURL != "" {
		return strings.TrimRight(h.baseURL, "/") + "/board/" + boardID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/board/" + boardID
}

func parseCoordinate(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errInvalidCoordinate
	}
	return v, nil
}
