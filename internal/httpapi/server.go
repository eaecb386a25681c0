// Package httpapi serves the forum operations over HTTP with chi.
//
// Every route of the table is registered on chi, so route docs and metric
// labels see the real patterns, but all of them, together with chi's
// NotFound and MethodNotAllowed handlers, end in one dispatch that resolves
// the raw path by position. Requests are handled one at a time.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/forum/internal/metrics"
	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/persist"
	"github.com/SergeyParamoshkin/forum/internal/router"
	"github.com/SergeyParamoshkin/forum/internal/store"
)

const maxBodyBytes = 1 << 20

type Options struct {
	// Backend receives a snapshot after every successful mutation. Nil
	// disables saving, as does TestMode.
	Backend  persist.Backend
	Driver   string
	TestMode bool
	Metrics  *metrics.Metrics
	Logger   *zap.SugaredLogger
}

type Server struct {
	mu       sync.Mutex
	store    *store.Store
	router   *router.Router
	backend  persist.Backend
	driver   string
	testMode bool
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
	mux      *chi.Mux
}

func New(s *store.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	srv := &Server{
		store:    s,
		router:   router.New(s),
		backend:  opts.Backend,
		driver:   opts.Driver,
		testMode: opts.TestMode,
		metrics:  opts.Metrics,
		logger:   logger,
	}
	srv.mux = srv.routes()

	return srv
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.Logger)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(s.Metrics)

	for _, route := range s.router.Routes() {
		r.Method(route.Method, chiPattern(route.Pattern), http.HandlerFunc(s.dispatch))
	}
	r.NotFound(s.dispatch)
	r.MethodNotAllowed(s.dispatch)

	return r
}

// chiPattern turns "/articles/:id" into "/articles/{id}".
func chiPattern(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}

	return strings.Join(segments, "/")
}

// Handler is the API handler to mount on the listening server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Mux exposes the chi router for route documentation.
func (s *Server) Mux() *chi.Mux {
	return s.mux
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Infow("dropping unreadable request body", "error", err)
		body = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// escaped, so an encoded slash stays inside its segment
	resp := s.router.Dispatch(r.Method, r.URL.EscapedPath(), body)
	if resp.Status < http.StatusMultipleChoices && router.Mutating(r.Method) {
		s.save(r.Context())
	}

	// the body shares entities with the store, so it is encoded under the lock
	s.respond(w, r, resp)
}

func (s *Server) save(ctx context.Context) {
	if s.backend == nil || s.testMode {
		return
	}

	// a client hanging up must not abort the write
	ctx = context.WithoutCancel(ctx)

	err := s.backend.Save(ctx, s.store.Snapshot())
	s.metrics.ObserveSave(ctx, s.driver, err)
	if err != nil {
		LoggerFromContext(ctx).Errorw("failed to save store", "driver", s.driver, "error", err)
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, resp payload.Response) {
	if resp.Body == nil {
		w.WriteHeader(resp.Status)

		return
	}

	render.Status(r, resp.Status)
	if err := render.Render(w, r, resp.Body); err != nil {
		LoggerFromContext(r.Context()).Errorw("failed to render response", "error", err)
	}
}

// DiagHandler serves the Prometheus scrape endpoint and a liveness probe.
func DiagHandler(m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", m.Handler().ServeHTTP)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	return r
}
