// Package httpapi exposes the REST surface of the memberhub server and the
// cookie-based session machinery guarding it.
package httpapi

import (
	"net/http"
	"time"

	"github.com/irezaei/memberhub/internal/logging"
	"github.com/irezaei/memberhub/internal/server/config"
	"github.com/irezaei/memberhub/internal/server/services"
)

// Handler carries the services the routes delegate to.
type Handler struct {
	members         *services.MemberService
	otp             *services.OTPService
	avatars         *services.AvatarService
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
	otpValidity     time.Duration
}

func NewHandler(ms *services.MemberService, os *services.OTPService, as *services.AvatarService, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{
		members:         ms,
		otp:             os,
		avatars:         as,
		logger:          logger.With("module", "httpapi"),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionTokenValidity,
		otpValidity:     cfg.OTPTokenValidity,
	}
}

// setSessionCookie installs the session token as an HTTP-only, same-site
// cookie so document scripts can never read it. The cookie lifetime
// matches the token's validity.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, validity time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(validity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HealthCheck handles GET /api/health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// NotFound is the JSON 404 for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "Route not found",
	})
}
