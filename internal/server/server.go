// Package server exposes a frame graph and its tree views over HTTP.
//
// The API is read-only JSON:
//
//	GET /api/frames        - all frames with names, UUIDs and degrees
//	GET /api/transforms    - all edges with endpoint names and payloads
//	GET /api/tree/{root}   - tree view rooted at the named frame
//	GET /api/dot/{root}    - Graphviz DOT of the graph with tree overlay
//
// Responses use frame names, not descriptors: descriptors are
// process-local handles and meaningless across the wire.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/envirekit/framegraph/pkg/dot"
	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/framegraph"
	"github.com/envirekit/framegraph/pkg/framegraph/tree"
)

// Server serves a single graph store. Handlers build static tree views
// per request; the graph is only read, never mutated, so the
// single-threaded graph contract holds as long as no other goroutine
// mutates it while the server runs.
type Server struct {
	g      *framegraph.Graph
	logger *log.Logger
}

// New creates a server for g. logger may be nil.
func New(g *framegraph.Graph, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{g: g, logger: logger}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/frames", s.handleFrames)
	r.Get("/api/transforms", s.handleTransforms)
	r.Get("/api/tree/{root}", s.handleTree)
	r.Get("/api/dot/{root}", s.handleDOT)
	return r
}

// frameJSON is the wire shape of one frame.
type frameJSON struct {
	Name      string         `json:"name"`
	ID        string         `json:"id"`
	OutDegree int            `json:"out_degree"`
	InDegree  int            `json:"in_degree"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// transformJSON is the wire shape of one edge.
type transformJSON struct {
	From        string     `json:"from"`
	To          string     `json:"to"`
	Translation [3]float64 `json:"translation"`
	Rotation    [4]float64 `json:"rotation"`
}

// relationJSON is one entry of a tree view's relation map.
type relationJSON struct {
	Parent   string   `json:"parent,omitempty"` // empty for the root
	Children []string `json:"children"`
}

// treeJSON is the wire shape of a tree view.
type treeJSON struct {
	Root       string                  `json:"root"`
	Frames     map[string]relationJSON `json:"frames"`
	CrossEdges []transformJSON         `json:"cross_edges"`
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	out := make([]frameJSON, 0, s.g.NumFrames())
	for _, ref := range s.g.Frames() {
		f, err := s.g.Frame(ref)
		if err != nil {
			continue
		}
		out = append(out, frameJSON{
			Name:      f.Name,
			ID:        f.ID.String(),
			OutDegree: s.g.OutDegree(ref),
			InDegree:  s.g.InDegree(ref),
			Meta:      f.Meta,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransforms(w http.ResponseWriter, r *http.Request) {
	out := make([]transformJSON, 0, s.g.NumTransforms())
	for _, e := range s.g.Edges() {
		tj, err := s.edgeJSON(e)
		if err != nil {
			continue
		}
		out = append(out, tj)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	v, err := s.buildView(chi.URLParam(r, "root"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := treeJSON{
		Frames:     make(map[string]relationJSON, v.Len()),
		CrossEdges: []transformJSON{},
	}
	rootFrame, err := s.g.Frame(v.Root())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out.Root = rootFrame.Name

	for _, ref := range v.Frames() {
		f, err := s.g.Frame(ref)
		if err != nil {
			continue
		}
		rel := relationJSON{Children: []string{}}
		if parent, _ := v.Parent(ref); !parent.IsNil() {
			pf, _ := s.g.Frame(parent)
			rel.Parent = pf.Name
		}
		kids, _ := v.Children(ref)
		for child := range kids {
			cf, _ := s.g.Frame(child)
			rel.Children = append(rel.Children, cf.Name)
		}
		out.Frames[f.Name] = rel
	}

	for _, e := range v.CrossEdges() {
		tj, err := s.edgeJSON(e)
		if err != nil {
			continue
		}
		out.CrossEdges = append(out.CrossEdges, tj)
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	v, err := s.buildView(chi.URLParam(r, "root"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(dot.ToDOT(s.g, v, dot.Options{})))
}

func (s *Server) buildView(rootName string) (*tree.View, error) {
	root, err := s.g.FrameByName(rootName)
	if err != nil {
		return nil, err
	}
	return tree.Build(s.g, root)
}

func (s *Server) edgeJSON(e framegraph.EdgeRef) (transformJSON, error) {
	src, err := s.g.Source(e)
	if err != nil {
		return transformJSON{}, err
	}
	dst, err := s.g.Target(e)
	if err != nil {
		return transformJSON{}, err
	}
	sf, err := s.g.Frame(src)
	if err != nil {
		return transformJSON{}, err
	}
	df, err := s.g.Frame(dst)
	if err != nil {
		return transformJSON{}, err
	}
	tf, err := s.g.Transform(e)
	if err != nil {
		return transformJSON{}, err
	}
	return transformJSON{
		From:        sf.Name,
		To:          df.Name,
		Translation: tf.Translation,
		Rotation:    tf.Rotation,
	}, nil
}

// errorJSON is the wire shape of a failure.
type errorJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeFrameNotFound, errors.ErrCodeTransformNotFound, errors.ErrCodeNotInView:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidLabel, errors.ErrCodeInvalidScene:
		status = http.StatusBadRequest
	}
	s.logger.Debug("request failed", "status", status, "err", err)
	s.writeJSON(w, status, errorJSON{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
