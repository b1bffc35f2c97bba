package http

import (
	"log/slog"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/middleware"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Policy         user.Policy
	JWTService     jwt.Service
	Profiles       user.ProfileResolver
	LoginLimiter   ratelimit.Limiter

	AuthHandler       AuthHandler
	AttendanceHandler AttendanceHandler
	ReportHandler     ReportHandler
	EventsHandler     EventsHandler
	HealthHandler     HealthHandler
	FileHandler       FileHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/health/live", cfg.HealthHandler.Live)
	r.Get("/health/ready", cfg.HealthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Exported reports are readable by report roles only
	r.Route("/files", func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(cfg.Profiles))
		r.Use(middleware.RequireOperation(cfg.Policy, user.OperationReport))
		r.Get("/*", cfg.FileHandler.Download)
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(cfg.LoginLimiter, "login")).Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(cfg.Profiles))
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// SSE authenticates with a short-lived query token
			r.Get("/events", cfg.EventsHandler.Stream)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(cfg.Profiles))

				r.Get("/", cfg.AttendanceHandler.List)
				r.Post("/events/token", cfg.AuthHandler.SSEToken)
				r.Get("/{id}", cfg.AttendanceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOperation(cfg.Policy, user.OperationWrite))
					r.Post("/", cfg.AttendanceHandler.Create)
					r.Put("/{id}", cfg.AttendanceHandler.Update)
				})

				r.With(middleware.RequireOperation(cfg.Policy, user.OperationDelete)).Delete("/{id}", cfg.AttendanceHandler.Delete)
			})
		})

		r.Route("/attendance-reports", func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.Profiles))
			r.Use(middleware.RequireOperation(cfg.Policy, user.OperationReport))

			r.Get("/", cfg.ReportHandler.Generate)
			r.Post("/export", cfg.ReportHandler.Export)
		})
	})
	return r
}
