// Package api provides the HTTP API for BrainLift.
//
// The server exposes REST endpoints over the pipeline and store:
//
//	GET    /health                   liveness probe
//	POST   /extract                  run the pipeline and persist the result
//	GET    /brainlifts               list stored BrainLifts
//	GET    /brainlifts/{id}          fetch one BrainLift
//	DELETE /brainlifts/{id}          remove a BrainLift
//	POST   /brainlifts/{id}/analyze  re-run connection analysis
//	GET    /brainlifts/{id}/layout   compute the diagram layout
//	GET    /brainlifts/{id}/render   render the diagram (svg or dot)
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/brainlift/pkg/pipeline"
	"github.com/matzehuels/brainlift/pkg/store"
)

// Server bundles the API's collaborators.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// Config holds server settings.
type Config struct {
	// AllowedOrigins lists CORS origins. Empty allows localhost only.
	AllowedOrigins []string
}

// NewServer creates an API server.
func NewServer(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router(cfg Config) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/extract", s.handleExtract)

	r.Route("/brainlifts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/layout", s.handleLayout)
			r.Get("/render", s.handleRender)
		})
	})

	return r
}
