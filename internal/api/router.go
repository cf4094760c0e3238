// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/config"
	"github.com/rahanss/Administrasi-Akademik/internal/middleware"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
	"github.com/rahanss/Administrasi-Akademik/internal/ratelimit"
)

// Store is the persistence surface the handlers need. *database.Database
// satisfies it; tests substitute fakes.
type Store interface {
	auth.UserDirectory

	FindActiveByUsername(ctx context.Context, username string) (*models.CMSUser, error)

	ListPublishedNews(ctx context.Context, limit int) ([]models.News, error)
	GetPublishedNewsBySlug(ctx context.Context, slug string) (*models.News, error)
	ListAllNews(ctx context.Context) ([]models.News, error)
	CreateNews(ctx context.Context, n *models.News) (*models.News, error)
	UpdateNews(ctx context.Context, n *models.News) error
	DeleteNews(ctx context.Context, id int64) error

	ListLecturers(ctx context.Context, programID int64, includePrivate bool) ([]models.Lecturer, error)
	CreateLecturer(ctx context.Context, l *models.Lecturer) (*models.Lecturer, error)
	DeleteLecturer(ctx context.Context, id int64) error

	ListCourses(ctx context.Context, programID int64) ([]models.Course, error)
	CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error)

	ListSchedules(ctx context.Context, day string) ([]models.ClassSchedule, error)

	Ping(ctx context.Context) error
}

// Router wires the gatekeeper and handlers onto the chi mux.
type Router struct {
	cfg        *config.Config
	handler    *Handler
	gatekeeper *Gatekeeper
}

// NewRouter builds the full HTTP surface from configuration and a store.
// Each rate limit policy gets its own limiter with its own client registry.
func NewRouter(cfg *config.Config, store Store, tokens *auth.JWTManager) *Router {
	authenticator := auth.NewAuthenticator(tokens, store)

	return &Router{
		cfg:     cfg,
		handler: NewHandler(store, tokens, cfg),
		gatekeeper: NewGatekeeper(
			ratelimit.New(cfg.RateLimit.Login),
			ratelimit.New(cfg.RateLimit.API),
			authenticator,
			cfg.RateLimit.Disabled,
		),
	}
}

// Routes assembles the route tree.
//
// Pipeline order on protected routes is fixed: rate limit, then
// authentication, then role check. Login endpoints see only the strict
// login policy; all other /api endpoints see only the general policy.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Operational endpoints stay outside the rate limited tree so probes
	// and scrapes never consume client quota.
	r.Get("/health", rt.handler.Health)
	r.Get("/health/live", rt.handler.HealthLive)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public content under the general policy.
		r.Group(func(r chi.Router) {
			r.Use(rt.gatekeeper.RateLimitAPI)

			r.Get("/news", rt.handler.ListNews)
			r.Get("/news/{slug}", rt.handler.GetNews)
			r.With(rt.gatekeeper.OptionalAuthenticate).Get("/lecturers", rt.handler.ListLecturers)
			r.Get("/courses", rt.handler.ListCourses)
			r.Get("/schedules", rt.handler.ListSchedules)
		})

		r.Route("/cms", func(r chi.Router) {
			// Login carries the strict policy and nothing else; a client
			// that burns its login quota keeps its full general quota.
			r.With(rt.gatekeeper.RateLimitLogin).Post("/auth/login", rt.handler.Login)

			// The rest of the CMS surface: general policy, authentication,
			// admin role floor.
			r.Group(func(r chi.Router) {
				r.Use(rt.gatekeeper.RateLimitAPI)
				r.Use(rt.gatekeeper.Authenticate)
				r.Use(rt.gatekeeper.RequireRole(auth.RoleAdmin))

				r.Get("/auth/me", rt.handler.Me)
				r.Post("/auth/logout", rt.handler.Logout)
				r.Get("/health", rt.handler.CMSHealth)

				r.Get("/news", rt.handler.CMSListNews)
				r.Post("/news", rt.handler.CMSCreateNews)
				r.Put("/news/{id}", rt.handler.CMSUpdateNews)
				r.Delete("/news/{id}", rt.handler.CMSDeleteNews)

				// Master data is reserved for super admins.
				r.Group(func(r chi.Router) {
					r.Use(rt.gatekeeper.RequireRole(auth.RoleSuperAdmin))

					r.Post("/lecturers", rt.handler.CMSCreateLecturer)
					r.Delete("/lecturers/{id}", rt.handler.CMSDeleteLecturer)
					r.Post("/courses", rt.handler.CMSCreateCourse)
				})
			})
		})
	})

	return r
}
