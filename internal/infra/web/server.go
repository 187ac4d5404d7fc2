package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-scam-guard/internal/usecase"
)

// Server exposes the operator API: health, prometheus metrics, admin
// login and read-only stats/users/scans endpoints.
type Server struct {
	statsUC usecase.StatsUseCase
	userUC  usecase.UserUseCase
	apiKey  string
	auth    *AuthManager
	log     *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	userUC usecase.UserUseCase,
	apiKey string,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		statsUC: statsUC,
		userUC:  userUC,
		apiKey:  apiKey,
		auth:    auth,
		log:     logger,
	}
}

// Router builds the chi router with guard middleware applied to every route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(
		TraceID(s.log),
		Recover(s.log),
		RequestLog(s.log),
		Timeout(15*time.Second),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/admin/auth/login", s.loginHandler())
		r.Post("/admin/auth/logout", s.logoutHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/stats", statsHandler(s.statsUC))
			r.Get("/users", usersListHandler(s.userUC))
			r.Get("/users/{id}/scans", userScansHandler(s.statsUC))
		})
	})

	return r
}

// authMiddleware accepts a session cookie or a bearer JWT minted by login.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			s.log.Error().Msg("auth manager is not configured")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
