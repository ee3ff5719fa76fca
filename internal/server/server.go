package server

import (
	"context"
	"log/slog"
	"net/http"

	ironmcp "github.com/claude/ironlog/internal/mcp"
	"github.com/claude/ironlog/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      *service.Service
	log      *slog.Logger
	router   chi.Router
	registry *prometheus.Registry
	metrics  *metrics

	whois   WhoIser
	devUser *UserInfo
}

// New creates a new Server with all routes configured. Requests are rejected
// until SetTailscale or SetDevUser provides a way to identify the caller.
func New(svc *service.Service, version string, log *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		svc:      svc,
		log:      log,
		router:   chi.NewRouter(),
		registry: reg,
		metrics:  newMetrics(reg),
	}
	s.routes(version)
	return s
}

// RegisterCollector adds a collector, such as database pool stats, to /metrics.
func (s *Server) RegisterCollector(c prometheus.Collector) error {
	return s.registry.Register(c)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(version string) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.metrics.middleware)
	s.router.Use(CORS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identify)

		r.Get("/me", s.handleMe)

		r.Get("/gyms", s.handleListGyms)
		r.Post("/gyms", s.handleCreateGym)
		r.Get("/gyms/nearby", s.handleNearbyGym)
		r.Put("/gyms/{gym_id}", s.handleUpdateGym)
		r.Delete("/gyms/{gym_id}", s.handleDeleteGym)
		r.Get("/gyms/{gym_id}/profile-mappings", s.handleGetProfileMappings)
		r.Put("/gyms/{gym_id}/profile-mappings", s.handleSetProfileMapping)

		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Delete("/profiles/{profile_id}", s.handleDeleteProfile)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings/current-gym", s.handleSetCurrentGym)

		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{workout_id}", s.handleGetWorkout)
		r.Get("/previous-sets", s.handlePreviousSets)
		r.Get("/exercises/{exercise_id}/suggestion", s.handleSuggestion)
		r.Get("/sync/bootstrap", s.handleBootstrap)
	})

	mcpServer := ironmcp.New(s.svc, version, s.log)
	streamable := server.NewStreamableHTTPServer(mcpServer,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := userIDFromContext(r); ok {
				return ironmcp.WithUserID(ctx, id)
			}
			return ctx
		}),
	)
	s.router.With(s.identify, requireUser).Handle("/mcp", streamable)
}
