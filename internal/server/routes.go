package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/omcar04/clave-take-home/internal/executor"
	"github.com/omcar04/clave-take-home/internal/handler"
	"github.com/omcar04/clave-take-home/internal/middleware"
	"github.com/omcar04/clave-take-home/internal/observability"
	"github.com/omcar04/clave-take-home/internal/planner"
	"github.com/omcar04/clave-take-home/internal/scope"
	"github.com/omcar04/clave-take-home/internal/service"
	"github.com/omcar04/clave-take-home/internal/store"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

// setupRoutes returns (router, db, error) so the database handle can be
// closed on shutdown.
func (s *Server) setupRoutes() (http.Handler, *store.Postgres, error) {
	cfg := s.cfg

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	completer := planner.NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	svc := service.New(
		scope.NewProvider(db),
		planner.New(completer),
		executor.New(db),
	)

	log.Info().
		Str("model", cfg.AnthropicModel).
		Str("api_prefix", cfg.APIPrefix).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Msg("service configuration")

	askH := handler.NewAskHandler(svc)
	healthH := handler.NewHealthHandler(db, Version)
	refH := handler.NewReferenceHandler(db)

	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)
	r.Method(http.MethodGet, "/metrics", observability.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/ask", askH.Ask)
			r.Get("/locations", refH.Locations)
			r.Get("/date-range", refH.DateRange)
		})
	})

	return r, db, nil
}
