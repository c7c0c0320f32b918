package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/logging"
	"github.com/irezaei/memberhub/internal/server/auth"
	"github.com/irezaei/memberhub/internal/server/models"
)

type ctxKey string

const memberKey ctxKey = "member"

// SessionCookieName is the cookie carrying the signed session token. The
// token is read from nowhere else: not from headers, not from the URL.
const SessionCookieName = "token"

// MemberFromContext returns the authenticated member attached by
// requireAuth, or nil outside an authenticated request.
func MemberFromContext(ctx context.Context) *models.Member {
	m, ok := ctx.Value(memberKey).(*models.Member)
	if !ok {
		return nil
	}
	return m
}

// requireAuth validates the session per request: cookie present, signature
// and expiry good, account still exists, account still active. On success
// the member (without hash) is attached to the context; every rejection is
// a generic 401.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeJSONError(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
			})
			return
		}

		userID, _, err := auth.ParseToken(cookie.Value, h.jwtSecret)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
			return
		}

		member, err := h.members.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrValidation) {
				writeJSONError(w, http.StatusUnauthorized, ErrorResponse{
					Error:   "unauthorized",
					Message: "Invalid or expired token",
				})
				return
			}
			h.respondError(w, r, err)
			return
		}

		if !member.IsActive {
			writeJSONError(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "account_disabled",
				Message: "Account is disabled",
			})
			return
		}

		ctx := context.WithValue(r.Context(), memberKey, member)
		next(w, r.WithContext(ctx))
	}
}

// requireRole gates an already-authenticated handler on role. It fails
// closed: without an attached member the request is rejected even though
// requireAuth should have run first.
func (h *Handler) requireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member := MemberFromContext(r.Context())
		if member == nil {
			writeJSONError(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
			})
			return
		}

		if member.Role != role {
			writeJSONError(w, http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "Insufficient permissions",
			})
			return
		}

		next(w, r)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs one line per request with a generated request id.
func loggingMiddleware(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.Info(r.Context(), "http request",
			"req_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start),
			"client_ip", r.RemoteAddr,
		)
	})
}

// timeoutMiddleware bounds the datastore work done on behalf of a request.
func timeoutMiddleware(d time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware admits the configured SPA origin with credentials.
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
