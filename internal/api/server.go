// Package api serves the pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe, {"status":"ok"}
//	GET  /v1/version   build information
//	POST /v1/layout    .flow document in, layout geometry (JSON) out
//	POST /v1/render    .flow document in, one artifact out (?format=svg|json|dot|png|pdf)
//
// Documents are sent either as the raw request body or as JSON
// {"source": "...", "style": {...}}, where style holds TOML-named keys that
// override the document's @style block. Every response carries an
// X-Render-ID header; errors are JSON {"code", "message"} with the status
// derived from the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = fserr.MaxSourceSize + 64*1024 // room for the JSON envelope
	shutdownGrace       = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// Timeout bounds the handling of one request.
	Timeout time.Duration

	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string

	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil runner runs the pipeline without a cache.
func New(runner *pipeline.Runner, cfg Config) *Server {
	cfg.setDefaults()
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(renderID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{HeaderRenderID, HeaderCache},
			MaxAge:         int((10 * time.Minute).Seconds()),
		}).Handler)
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.With(bodyLimit(s.cfg.MaxBodyBytes)).Post("/layout", s.handleLayout)
		r.With(bodyLimit(s.cfg.MaxBodyBytes)).Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, fserr.New(fserr.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
