package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/codescope/pkg/browse"
	"github.com/matzehuels/codescope/pkg/buildinfo"
	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
	"github.com/matzehuels/codescope/pkg/graphview"
	"github.com/matzehuels/codescope/pkg/pipeline"
)

type healthResponse struct {
	Status   string         `json:"status"`
	Loaded   bool           `json:"loaded"`
	Source   string         `json:"source,omitempty"`
	Revision string         `json:"revision,omitempty"`
	LoadedAt *time.Time     `json:"loadedAt,omitempty"`
	Build    buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Build: buildinfo.Get()}
	if ds, err := s.dataset(); err == nil {
		resp.Loaded = true
		resp.Source = ds.Source
		resp.Revision = ds.Revision
		resp.LoadedAt = &ds.LoadedAt
	} else {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}
	writeJSON(w, http.StatusOK, ds.Data)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}
	writeJSON(w, http.StatusOK, browse.Summarize(ds))
}

type classList struct {
	Order browse.Order      `json:"order"`
	Total int               `json:"total"`
	Rows  []browse.ClassRow `json:"rows"`
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}
	q := r.URL.Query()
	order, err := browse.ParseClassOrder(q.Get("sort"), q.Get("dir"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	unused, err := parseBool(q.Get("unused"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := browse.Classes(ds, browse.ClassQuery{UnusedOnly: unused, Search: q.Get("q"), Order: order})
	writeJSON(w, http.StatusOK, classList{Order: order, Total: len(rows), Rows: rows})
}

func (s *Server) handleClass(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}
	id := chi.URLParam(r, "id")
	if err := errors.ValidateEntityID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := browse.Class(ds, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type methodList struct {
	Order browse.Order       `json:"order"`
	Total int                `json:"total"`
	Rows  []browse.MethodRow `json:"rows"`
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}
	q := r.URL.Query()
	order, err := browse.ParseMethodOrder(q.Get("sort"), q.Get("dir"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	unused, err := parseBool(q.Get("unused"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := browse.Methods(ds, browse.MethodQuery{UnusedOnly: unused, Search: q.Get("q"), Order: order})
	writeJSON(w, http.StatusOK, methodList{Order: order, Total: len(rows), Rows: rows})
}

func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}
	id := chi.URLParam(r, "id")
	if err := errors.ValidateEntityID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := browse.Method(ds, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type graphResponse struct {
	Kind        dataset.Kind    `json:"kind"`
	Search      string          `json:"search,omitempty"`
	Highlight   string          `json:"highlight,omitempty"`
	Highlighted bool            `json:"highlighted"`
	Graph       graphview.Graph `json:"graph"`
}

var graphContentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

// handleGraph serves /api/graph/{kind}. A ".svg" or ".dot" suffix on kind,
// or a format query parameter, selects a rendered artifact instead of the
// JSON view.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.unavailable(w)
		return
	}

	q := r.URL.Query()
	kindParam, format := splitFormat(chi.URLParam(r, "kind"))
	if f := q.Get("format"); f != "" {
		format = f
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	kind, err := dataset.ParseKind(kindParam)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	dir := s.opts.Direction
	if d := q.Get("direction"); d != "" {
		if dir, err = graphview.ParseDirection(d); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	opts := pipeline.Options{
		Kind:      kind,
		Direction: dir,
		Search:    q.Get("search"),
		Highlight: q.Get("highlight"),
		Formats:   []string{format},
		Detailed:  q.Has("detailed"),
		Logger:    s.logger,
	}

	if format == pipeline.FormatJSON {
		view, highlighted, err := s.runner.View(r.Context(), ds, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, graphResponse{
			Kind:        kind,
			Search:      opts.Search,
			Highlight:   opts.Highlight,
			Highlighted: highlighted,
			Graph:       view,
		})
		return
	}

	result, err := s.runner.Execute(r.Context(), ds, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", graphContentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func splitFormat(kind string) (string, string) {
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatDOT} {
		if base, ok := strings.CutSuffix(kind, "."+f); ok {
			return base, f
		}
	}
	return kind, pipeline.FormatJSON
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", s)
	}
	return b, nil
}
