package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/larrypadri/pysetup/pkg/buildinfo"
	"github.com/larrypadri/pysetup/pkg/deps"
	"github.com/larrypadri/pysetup/pkg/guide"
)

// Handler builds the route table. It is separate from Run so tests can
// exercise the routes with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/guide/{slug}", s.handleGuideStep)
	r.Get("/api/guide", s.handleAPIGuide)
	r.Get("/api/status", s.handleAPIStatus)
	r.Get("/api/requirements", s.handleAPIRequirements)
	r.Get("/healthz", s.handleHealth)

	return r
}

type indexData struct {
	Steps   []guide.Step
	Scan    Scan
	Version string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderHTML(w, "index.html", indexData{
		Steps:   guide.Steps(),
		Scan:    s.Latest(),
		Version: buildinfo.Version,
	})
}

type stepData struct {
	Step    guide.Step
	Prev    *guide.Step
	Next    *guide.Step
	Version string
}

func (s *Server) handleGuideStep(w http.ResponseWriter, r *http.Request) {
	step, ok := guide.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := stepData{Step: step, Version: buildinfo.Version}
	if prev, ok := guide.ByNumber(step.Number - 1); ok {
		data.Prev = &prev
	}
	if next, ok := guide.ByNumber(step.Number + 1); ok {
		data.Next = &next
	}
	s.renderHTML(w, "step.html", data)
}

func (s *Server) handleAPIGuide(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, guide.Steps())
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Latest())
}

type requirementsResponse struct {
	Present bool              `json:"present"`
	Count   int               `json:"count"`
	Entries []requirementJSON `json:"entries"`
}

func (s *Server) handleAPIRequirements(w http.ResponseWriter, r *http.Request) {
	scan := s.Latest()

	resp := requirementsResponse{Entries: []requirementJSON{}}
	if scan.Project != nil && scan.Project.HasRequirements {
		resp.Present = true
		if scan.Requirements != nil {
			resp.Entries = scan.Requirements
		}
		resp.Count = len(resp.Entries)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// requirementJSON is the wire shape of one requirements.txt entry.
type requirementJSON struct {
	Name       string   `json:"name"`
	Canonical  string   `json:"canonical"`
	Extras     []string `json:"extras,omitempty"`
	Constraint string   `json:"constraint,omitempty"`
	Marker     string   `json:"marker,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	Spec       string   `json:"spec"`
}

func requirementsJSON(doc *deps.Document) []requirementJSON {
	entries := doc.Entries()
	out := make([]requirementJSON, len(entries))
	for i, req := range entries {
		out[i] = requirementJSON{
			Name:       req.Name,
			Canonical:  req.Canonical(),
			Extras:     req.Extras,
			Constraint: req.Constraint,
			Marker:     req.Marker,
			Comment:    req.Comment,
			Spec:       req.String(),
		}
	}
	return out
}

// writeJSON writes v with the JSON content type. Encode failures are only
// logged; by then the status line is already on the wire.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}
