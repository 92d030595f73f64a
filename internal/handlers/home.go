package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"magblocks/internal/board"
)

const sessionCookieName = "magblocks_board"

type HomeHandler struct {
	store  *board.Store
	logger *log.Logger
}

func NewHomeHandler(store *board.Store, logger *log.Logger) *HomeHandler {
	return &HomeHandler{store: store, logger: logger}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/boards", h.createBoard)
}

// home sends the browser to its board, creating one on first visit or when
// the remembered board was pruned.
func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	if id := boardIDFromCookie(r); id != "" {
		if _, ok := h.store.GetSession(id); ok {
			http.Redirect(w, r, "/board/"+id, http.StatusSeeOther)
			return
		}
	}
	h.createBoard(w, r)
}

func (h *HomeHandler) createBoard(w http.ResponseWriter, r *http.Request) {
	sess := h.store.CreateSession(time.Now().UTC())
	h.logger.Info("board created", "board", sess.ID, "boards", h.store.Len())
	setBoardCookie(w, sess.ID)
	http.Redirect(w, r, "/board/"+sess.ID, http.StatusSeeOther)
}

func boardIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setBoardCookie(w http.ResponseWriter, boardID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    boardID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}
