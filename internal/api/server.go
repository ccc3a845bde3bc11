package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/clinicguard/internal/api/handler"
	mw "github.com/edvin/clinicguard/internal/api/middleware"
	"github.com/edvin/clinicguard/internal/config"
	"github.com/edvin/clinicguard/internal/security"
)

// Pinger is a dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Authenticator issues and validates session tokens.
type Authenticator interface {
	handler.Authenticator
	mw.TokenValidator
}

type Deps struct {
	Auth     Authenticator
	Users    mw.UserLookup
	Security *security.Services
	// Checks are reported by name on /readyz.
	Checks map[string]Pinger
}

type Server struct {
	router chi.Router
	logger zerolog.Logger
	cfg    *config.Config
	deps   Deps
}

func NewServer(logger zerolog.Logger, cfg *config.Config, deps Deps) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		cfg:    cfg,
		deps:   deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	auth := handler.NewAuth(s.deps.Auth, s.cfg.SecureCookies)
	s.router.Post("/auth/login", auth.Login)
	s.router.Post("/auth/logout", auth.Logout)

	s.router.Route("/api/security", func(r chi.Router) {
		r.Use(mw.Auth(s.deps.Auth, s.deps.Users))

		register := handler.NewRegister(s.deps.Security)
		r.Get("/register", register.Status)
		r.Post("/register", register.Create)

		endpoints := handler.NewEndpoints(s.deps.Security)
		r.Get("/endpoints", endpoints.List)
		r.Post("/endpoints", endpoints.Create)
		r.Delete("/endpoints", endpoints.Delete)

		isolation := handler.NewIsolation(s.deps.Security)
		r.Get("/isolation", isolation.Status)
		r.Post("/isolation", isolation.Set)
		r.Get("/isolation/history", isolation.History)

		actions := handler.NewActions(s.deps.Security)
		r.Post("/actions", actions.Dispatch)

		stats := handler.NewStats(s.deps.Security)
		r.Get("/stats", stats.Get)

		bd := handler.NewBitdefender(s.deps.Security)
		r.Get("/bitdefender/endpoints", bd.ListEndpoints)
		r.Post("/bitdefender/endpoints", bd.CreateEndpoint)
		r.Get("/bitdefender/stats", bd.Stats)
		r.Get("/bitdefender/policies", bd.Policies)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	for name, p := range s.deps.Checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "checks": checks})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
