package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func renderToString(r *http.Request, component templ.Component) string {
	var buf bytes.Buffer
	_ = component.Render(r.Context(), &buf)
	return buf.String()
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}
