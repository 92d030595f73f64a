package web

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs one line per request. Streams are logged when they close.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				keyvals := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"took", time.Since(start).Round(time.Millisecond),
				}
				if id := middleware.GetReqID(r.Context()); id != "" {
					keyvals = append(keyvals, "req", id)
				}
				switch {
				case status >= 500:
					logger.Error("request", keyvals...)
				case r.Method == http.MethodPost && status < 400:
					// Gestures arrive many times per second while dragging.
					logger.Debug("request", keyvals...)
				default:
					logger.Info("request", keyvals...)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
