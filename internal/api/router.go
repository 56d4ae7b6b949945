package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edulytics/edulytics-server/internal/api/handlers"
	"github.com/edulytics/edulytics-server/internal/api/middleware"
	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/config"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/edulytics/edulytics-server/internal/ratelimit"
	"github.com/edulytics/edulytics-server/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const loginRoute = "/api/auth/login"

// Deps are the collaborators the router wires into handlers. Limiter may be
// nil, which disables login throttling.
type Deps struct {
	Services *service.Services
	Tokens   *auth.TokenCodec
	Cookies  *auth.CookieTransport
	Limiter  ratelimit.Limiter
	Metrics  *observability.Metrics
	Config   *config.Config
	Logger   *slog.Logger
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	authn := middleware.CookieAuthenticator{Tokens: deps.Tokens, Cookies: deps.Cookies}
	requireTeacher := middleware.RequireRole(domain.RoleTeacher)

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Cookies, deps.Logger)
	academicsHandler := handlers.NewAcademicsHandler(deps.Services.Academics, deps.Logger)
	topicHandler := handlers.NewTopicHandler(deps.Services.Topic, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.With(middleware.RateLimit(deps.Limiter, loginRoute, cfg.RateLimit.LoginPerMinute, time.Minute, deps.Metrics)).
				Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.With(middleware.Guard(authn, deps.Metrics)).Get("/me", authHandler.Me)
		})

		r.Route("/academics", func(r chi.Router) {
			r.Get("/courses", academicsHandler.ListCourses)
			r.Get("/semesters", academicsHandler.ListSemesters)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Use(middleware.Guard(authn, deps.Metrics, requireTeacher))
			r.Get("/", topicHandler.List)
			r.Post("/", topicHandler.Create)
			r.Patch("/{id}", topicHandler.Rename)
			r.Delete("/{id}", topicHandler.Delete)
		})
	})

	return r
}
