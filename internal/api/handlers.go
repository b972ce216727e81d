package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brainlift/pkg/buildinfo"
	"github.com/matzehuels/brainlift/pkg/dok"
	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/layout"
	"github.com/matzehuels/brainlift/pkg/pipeline"
	"github.com/matzehuels/brainlift/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// extractRequest is the body of POST /extract.
type extractRequest struct {
	URL        string `json:"url"`
	Refresh    bool   `json:"refresh,omitempty"`
	Model      string `json:"model,omitempty"`
	MaxPerNode int    `json:"max_per_node,omitempty"`
}

// extractResponse is the body of a successful POST /extract.
type extractResponse struct {
	BrainLift *dok.BrainLift `json:"brainlift"`
	Layout    layout.Layout  `json:"layout"`
	Stats     pipeline.Stats `json:"stats"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}
	if err := apperrors.ValidateWorkFlowyURL(req.URL); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		URL:        req.URL,
		Refresh:    req.Refresh,
		Model:      req.Model,
		MaxPerNode: req.MaxPerNode,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	bl := result.BrainLift(req.URL)
	if err := s.store.Save(r.Context(), bl); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "save brainlift"))
		return
	}

	writeJSON(w, http.StatusCreated, extractResponse{
		BrainLift: bl,
		Layout:    result.Layout,
		Stats:     result.Stats,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "list brainlifts"))
		return
	}
	if summaries == nil {
		summaries = []dok.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	bl, ok := s.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bl)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	bl, ok := s.fetch(w, r)
	if !ok {
		return
	}

	opts := pipeline.Options{
		Force: r.URL.Query().Get("force") == "true",
		Model: r.URL.Query().Get("model"),
	}
	analysis, err := s.runner.Analyze(r.Context(), bl.Sections, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.SaveAnalysis(r.Context(), bl.ID, analysis); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, ok := s.computeLayout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	l, ok := s.computeLayout(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(render.DiagramSVG(l, render.Options{}))
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(render.ToDOT(l, render.Options{})))
	default:
		writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "unknown render format %q", format))
	}
}

// fetch loads the BrainLift named by the id route parameter, writing the
// error response itself on failure.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (*dok.BrainLift, bool) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateID(id); err != nil {
		writeError(w, err)
		return nil, false
	}
	bl, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return bl, true
}

// computeLayout loads a BrainLift and computes its diagram. A missing
// analysis lays out every item as an orphan rather than failing, so fresh
// extractions still render.
func (s *Server) computeLayout(w http.ResponseWriter, r *http.Request) (layout.Layout, bool) {
	bl, ok := s.fetch(w, r)
	if !ok {
		return layout.Layout{}, false
	}

	analysis := dok.Analysis{}
	if bl.Analysis != nil {
		analysis = *bl.Analysis
	}

	l, err := s.runner.ComputeLayout(r.Context(), bl.Sections, analysis, pipeline.Options{})
	if err != nil {
		writeError(w, err)
		return layout.Layout{}, false
	}
	return l, true
}
