// Package server hosts live views over HTTP.
//
// Each POST /views creates a View and starts a Loop goroutine for it. The
// loop owns the view: handlers never touch it directly, they hand work to
// the loop with Loop.Do and wait for the result. Pointer and wheel input
// therefore lands at a frame boundary, never in the middle of a tick.
//
// # Routes
//
//	POST   /views                 create a view from a graph document
//	GET    /views/{id}/frame.svg  last frame drawn by the loop
//	GET    /views/{id}/frame.png  current frame rasterized
//	POST   /views/{id}/pointer    {"type": "down|move|up|leave", "x": 0, "y": 0}
//	POST   /views/{id}/wheel      {"delta": -1}
//	GET    /views/{id}/events     click and hover events since the last call
//	GET    /views/{id}/layout     current positions as a graph document
//	DELETE /views/{id}            tear the view down
//	GET    /healthz
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Defaults.
const (
	DefaultMaxViews = 64
	DefaultMaxBody  = 10 << 20
)

// Options configures a Server.
type Options struct {
	Config   *config.Config // nil means config.Default()
	Cache    cache.Cache    // nil means no frame cache
	Keyer    cache.Keyer    // nil means cache.NewDefaultKeyer()
	Logger   *log.Logger    // nil means log.Default()
	MaxViews int
	MaxBody  int64
}

// Server is the live-view HTTP host.
type Server struct {
	cfg      *config.Config
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger
	maxViews int
	maxBody  int64

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*session

	router chi.Router
}

// New returns a server. Views it creates live until they are deleted or
// the server is closed.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		logger:   opts.Logger,
		maxViews: opts.MaxViews,
		maxBody:  opts.MaxBody,
		sessions: make(map[string]*session),
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.maxViews <= 0 {
		s.maxViews = DefaultMaxViews
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/frame.svg", s.handleFrameSVG)
			r.Get("/frame.png", s.handleFramePNG)
			r.Post("/pointer", s.handlePointer)
			r.Post("/wheel", s.handleWheel)
			r.Get("/events", s.handleEvents)
			r.Get("/layout", s.handleLayout)
			r.Delete("/", s.handleDelete)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes every view.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("Serving live views", "addr", addr)

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close tears down every view and waits for their loops to stop.
func (s *Server) Close() {
	s.cancel()
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.stop()
		observability.Server().OnViewClose(s.ctx, sess.id)
	}
}

// Views returns the number of live views.
func (s *Server) Views() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// instrument logs each request and reports it to the server hooks using
// the route pattern, so per-view paths aggregate.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "took", elapsed.Round(time.Microsecond))
		observability.Server().OnRequest(r.Context(), r.Method, route, status, elapsed)
	})
}
