package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// templates holds every embedded page, parsed once at startup. The set is
// fixed at compile time, so a parse failure is a programming error.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// renderHTML executes a page template into a buffer first, so a render
// failure can still produce a clean 500 instead of a torn page.
func (s *Server) renderHTML(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("rendering template", "template", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
