package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/usecase"
)

type ctxKey string

const sessionKey ctxKey = "session"

type Server struct {
	submitUC  usecase.SubmitUseCase
	upgradeUC usecase.UpgradeUseCase
	profiles  repository.ProfileRepository
	auth      *AuthManager
	devLogin  bool
	log       *zerolog.Logger
}

func NewServer(
	submitUC usecase.SubmitUseCase,
	upgradeUC usecase.UpgradeUseCase,
	profiles repository.ProfileRepository,
	auth *AuthManager,
	devLogin bool,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		submitUC:  submitUC,
		upgradeUC: upgradeUC,
		profiles:  profiles,
		auth:      auth,
		devLogin:  devLogin,
		log:       &l,
	}
}

// Router builds the user-facing API. All job routes sit behind the session
// middleware; /login is only mounted in dev mode.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	if s.devLogin {
		r.Post("/login", s.loginHandler())
	}
	r.Post("/logout", s.logoutHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Post("/jobs", s.jobsCreateHandler())
		r.Get("/jobs", s.jobsListHandler())
		r.Get("/jobs/{jobID}", s.jobGetHandler())
		r.Post("/subscribe", s.subscribeHandler())
	})

	return r
}

// sessionMiddleware rejects requests without a valid session token and puts
// the claims on the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(sessionKey).(*SessionClaims)
	return claims
}
