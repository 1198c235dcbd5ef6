package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/claude/liftscope/internal/ingest"
	"github.com/claude/liftscope/internal/progress"
	"github.com/go-chi/chi/v5"
)

// Ingestor accepts session-export payloads.
type Ingestor interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *progress.Service
	ingest Ingestor
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *progress.Service, ingestor Ingestor, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		ingest: ingestor,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Identity)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/ingest", s.handleIngest)
		r.Post("/api/v1/cache/clear", s.handleCacheClear)
	})

	// Dashboard API endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/exercises", s.handleExerciseList)
	s.router.Get("/api/v1/exercises/hierarchy", s.handleExerciseHierarchy)
	s.router.Get("/api/v1/exercises/{key}/progress", s.handleExerciseProgress)
	s.router.Get("/api/v1/exercises/{key}/chart", s.handleExerciseChart)
	s.router.Get("/api/v1/distribution", s.handleDistribution)
	s.router.Get("/api/v1/heatmap", s.handleHeatMap)
	s.router.Get("/api/v1/prs", s.handlePRTimeline)
}
