package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/cache"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/loop"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render/raster"
	"github.com/matzehuels/forcegraph/pkg/render/svg"
	"github.com/matzehuels/forcegraph/pkg/sim"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// =============================================================================
// View Lifecycle
// =============================================================================

type createResponse struct {
	ID     string `json:"id"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	width, height, err := s.canvasSize(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := graph.ReadGraph(http.MaxBytesReader(w, r.Body, s.maxBody), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if g.Len() > sim.SoftNodeLimit {
		s.logger.Warn("Large graph, frames may be slow", "nodes", g.Len(), "limit", sim.SoftNodeLimit)
	}

	sess := &session{id: uuid.NewString(), svg: svg.New(), done: make(chan struct{})}
	params, theme := s.cfg.Physics, s.cfg.Theme
	v, err := view.FromGraph(g, view.Options{
		Width:       width,
		Height:      height,
		PixelRatio:  s.cfg.Canvas.DPR,
		Params:      &params,
		Seed:        s.cfg.Canvas.Seed,
		Theme:       &theme,
		OnNodeClick: func(n *graph.Node) { sess.record("click", n) },
		OnNodeHover: func(n *graph.Node) { sess.record("hover", n) },
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess.view = v
	sess.loop = loop.New(v, sess.svg, loop.WithFPS(s.cfg.Canvas.FPS))

	s.mu.Lock()
	if len(s.sessions) >= s.maxViews {
		s.mu.Unlock()
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:   "TOO_MANY_VIEWS",
			Message: "live view limit reached (" + strconv.Itoa(s.maxViews) + ")",
		})
		return
	}
	sess.start(s.ctx)
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	observability.Server().OnViewOpen(r.Context(), sess.id, g.Len())
	s.logger.Info("Opened view", "id", sess.id, "nodes", g.Len(), "edges", len(g.Edges()))

	s.writeJSON(w, http.StatusCreated, createResponse{
		ID:     sess.id,
		Nodes:  g.Len(),
		Edges:  len(g.Edges()),
		Width:  width,
		Height: height,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "view %q not found", id))
		return
	}

	sess.stop()
	observability.Server().OnViewClose(r.Context(), id)
	s.logger.Info("Closed view", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "views": s.Views()})
}

// =============================================================================
// Frames
// =============================================================================

// handleFrameSVG serves the frame the loop drew last.
func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var data []byte
	err = sess.loop.Do(r.Context(), func(v *view.View) {
		if sess.loop.Frames() == 0 {
			v.Draw(sess.svg)
		}
		data = bytes.Clone(sess.svg.Bytes())
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// handleFramePNG rasterizes the current frame. Encoded frames are cached
// per tick so that clients polling faster than the simulation share work.
func (s *Server) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx := r.Context()

	var tick int
	if err := sess.loop.Do(ctx, func(v *view.View) { tick = v.Engine().Tick() }); err != nil {
		s.writeError(w, err)
		return
	}
	if data, hit, err := s.cache.Get(ctx, s.keyer.FrameKey(sess.id, tick, "png")); err == nil && hit {
		writePNG(w, data)
		return
	}

	var surf *raster.Surface
	err = sess.loop.Do(ctx, func(v *view.View) {
		tick = v.Engine().Tick()
		width, height := v.Size()
		surf = raster.New(width, height, v.PixelRatio())
		v.Draw(surf)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := surf.EncodePNG(&buf); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode png"))
		return
	}
	if err := s.cache.Set(ctx, s.keyer.FrameKey(sess.id, tick, "png"), buf.Bytes(), cache.FrameTTL); err != nil {
		s.logger.Warn("Failed to cache frame", "id", sess.id, "error", err)
	}
	writePNG(w, buf.Bytes())
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// =============================================================================
// Input
// =============================================================================

type pointerRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type wheelRequest struct {
	Delta float64 `json:"delta"`
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req pointerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var fn func(*view.View)
	switch req.Type {
	case "down":
		fn = func(v *view.View) { v.PointerDown(req.X, req.Y) }
	case "move":
		fn = func(v *view.View) { v.PointerMove(req.X, req.Y) }
	case "up":
		fn = func(v *view.View) { v.PointerUp(req.X, req.Y) }
	case "leave":
		fn = func(v *view.View) { v.PointerLeave() }
	default:
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "unknown pointer event %q (want down, move, up or leave)", req.Type))
		return
	}

	if err := sess.loop.Do(r.Context(), fn); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req wheelRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if err := sess.loop.Do(r.Context(), func(v *view.View) { v.Wheel(req.Delta) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Queries
// =============================================================================

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var events []Event
	if err := sess.loop.Do(r.Context(), func(*view.View) { events = sess.drain() }); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := graph.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		if format, err = graph.ParseFormat(f); err != nil {
			s.writeError(w, err)
			return
		}
	}

	var layout graph.Layout
	if err := sess.loop.Do(r.Context(), func(v *view.View) { layout = v.Layout() }); err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := graph.WriteLayout(&buf, layout, format); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(buf.Bytes())
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(r *http.Request) (*session, error) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "view %q not found", id)
	}
	return sess, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

// canvasSize reads optional width and height query parameters.
func (s *Server) canvasSize(r *http.Request) (width, height int, err error) {
	width, height = s.cfg.Canvas.Width, s.cfg.Canvas.Height
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"width", &width}, {"height", &height}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, 0, errs.New(errs.ErrCodeInvalidInput, "%s must be a positive integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	return width, height, nil
}

// requestFormat picks the graph document format from ?format= or the
// Content-Type header. JSON is the default.
func requestFormat(r *http.Request) (graph.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return graph.ParseFormat(f)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return graph.FormatYAML, nil
	}
	return graph.FormatJSON, nil
}

func contentType(f graph.Format) string {
	if f == graph.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
