// Package server exposes scene computation and storage over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/globals                 compute globals for a posted document
//	POST   /v1/scenes                  store a document
//	GET    /v1/scenes                  list stored scenes
//	GET    /v1/scenes/{id}             fetch a stored scene
//	DELETE /v1/scenes/{id}             delete a stored scene
//	GET    /v1/scenes/{id}/globals     compute globals for a stored scene
//	GET    /v1/scenes/{id}/dot         DOT source for a stored scene
//	GET    /v1/scenes/{id}/render      rendered artifact (?format=svg|png|dot)
//
// Errors are returned as {"code": ..., "message": ...} with an HTTP status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scenegraph/pkg/observability"
	"github.com/matzehuels/scenegraph/pkg/pipeline"
	"github.com/matzehuels/scenegraph/pkg/storage"
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Config wires a Server to its dependencies. Only Repository is required.
type Config struct {
	Repository   storage.Repository
	Runner       *pipeline.Runner
	Logger       *log.Logger
	SceneHooks   observability.SceneHooks
	HTTPHooks    observability.HTTPHooks
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	repo       storage.Repository
	runner     *pipeline.Runner
	logger     *log.Logger
	sceneHooks observability.SceneHooks
	httpHooks  observability.HTTPHooks
	maxBody    int64
	router     chi.Router
}

// New creates a Server. A nil Runner renders without caching; nil hooks
// use the registered observability hooks.
func New(cfg Config) (*Server, error) {
	if cfg.Repository == nil {
		return nil, errors.New("server: repository is required")
	}
	s := &Server{
		repo:       cfg.Repository,
		runner:     cfg.Runner,
		logger:     cfg.Logger,
		sceneHooks: cfg.SceneHooks,
		httpHooks:  cfg.HTTPHooks,
		maxBody:    cfg.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.sceneHooks == nil {
		s.sceneHooks = observability.Scene()
	}
	if s.httpHooks == nil {
		s.httpHooks = observability.HTTP()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(middleware.RequestSize(s.maxBody))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/globals", s.handleComputeGlobals)

		r.Route("/scenes", func(r chi.Router) {
			r.Post("/", s.handleCreateScene)
			r.Get("/", s.handleListScenes)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetScene)
				r.Delete("/", s.handleDeleteScene)
				r.Get("/globals", s.handleSceneGlobals)
				r.Get("/dot", s.handleSceneDOT)
				r.Get("/render", s.handleSceneRender)
			})
		})
	})
	return r
}

// instrument logs each request and reports it to the HTTP hooks under its
// route pattern rather than its raw path.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.httpHooks.OnRequest(r.Context(), r.Method, route)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		s.httpHooks.OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"took", dur.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
