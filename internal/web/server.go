// Package web wires the board handlers into an HTTP server.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"magblocks/internal/board"
	"magblocks/internal/config"
	"magblocks/internal/handlers"
)

//go:embed static/*
var embeddedStatic embed.FS

const shutdownTimeout = 5 * time.Second

// Server is the web host: one board per browser session.
type Server struct {
	cfg     config.Config
	store   *board.Store
	logger  *log.Logger
	handler http.Handler
}

// New builds the router and the session store for cfg.
func New(cfg config.Config, logger *log.Logger, opts ...board.Option) *Server {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	s := &Server{
		cfg:    cfg,
		store:  board.NewStore(cfg.BoardSurface(), cfg.SplashDuration(), opts...),
		logger: logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store exposes the session store.
func (s *Server) Store() *board.Store {
	return s.store
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	handlers.NewHomeHandler(s.store, s.logger).RegisterRoutes(r)
	handlers.NewBoardHandler(s.store, s.logger, s.cfg.BaseURL).RegisterRoutes(r)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: SSE streams stay open for the life of the page.
		IdleTimeout: 60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.janitor(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "url", "http://localhost"+portSuffix(s.cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Open streams never finish on their own; close them after the grace period.
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown incomplete", "err", err)
		return server.Close()
	}
	return nil
}

// janitor drops boards nobody has touched for the configured idle timeout.
func (s *Server) janitor(ctx context.Context) {
	idle := s.cfg.IdleTimeout()
	if idle <= 0 {
		return
	}
	interval := idle / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.store.PruneIdle(now.UTC(), idle); n > 0 {
				s.logger.Info("pruned idle boards", "count", n, "remaining", s.store.Len())
			}
		}
	}
}

func portSuffix(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return ":" + port
}
