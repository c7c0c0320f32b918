package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/irezaei/memberhub/internal/logging"
	"github.com/irezaei/memberhub/internal/server/config"
	"github.com/irezaei/memberhub/internal/server/models"
)

const shutdownTimeout = 5 * time.Second

// Server owns the HTTP listener and its route table.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer builds the route table and wraps it with the CORS, timeout and
// logging middleware.
func NewServer(h *Handler, cfg *config.Config, logger logging.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HealthCheck)

	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.requireAuth(h.Me))
	mux.HandleFunc("POST /api/auth/otp/send", h.SendOTP)
	mux.HandleFunc("POST /api/auth/otp/verify", h.VerifyOTP)

	mux.HandleFunc("GET /api/profile", h.requireAuth(h.GetProfile))
	mux.HandleFunc("PUT /api/profile", h.requireAuth(h.UpdateProfile))
	mux.HandleFunc("POST /api/profile/avatar", h.requireAuth(h.CreateAvatarUpload))
	mux.HandleFunc("GET /api/profile/avatar", h.requireAuth(h.GetAvatarDownload))

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return h.requireAuth(h.requireRole(models.RoleAdmin, next))
	}
	mux.HandleFunc("GET /api/members", admin(h.ListMembers))
	mux.HandleFunc("GET /api/members/stats", admin(h.MemberStats))
	mux.HandleFunc("POST /api/members", admin(h.CreateMember))
	mux.HandleFunc("GET /api/members/{id}", admin(h.GetMember))
	mux.HandleFunc("PUT /api/members/{id}", admin(h.UpdateMember))
	mux.HandleFunc("DELETE /api/members/{id}", admin(h.DeleteMember))

	mux.HandleFunc("/", h.NotFound)

	handler := loggingMiddleware(logger,
		corsMiddleware(cfg.AllowedOrigin,
			timeoutMiddleware(cfg.RequestTimeout, mux)))

	return &Server{
		srv:    &http.Server{Addr: cfg.Addr, Handler: handler},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
