package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/irezaei/memberhub/internal/common"
)

// maxBodyBytes bounds request bodies; every payload this API accepts is
// small JSON.
const maxBodyBytes = 1 << 20

// ErrorResponse is the uniform error body: a stable machine-readable kind
// plus a client-safe message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}

// decodeJSON reads the request body into v, bounded by maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrValidation)
	}
	return nil
}

// mapError translates a service error into a status code and a generic
// response. Anything unrecognized is an internal error; its detail never
// reaches the client.
func mapError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()}
	case errors.Is(err, common.ErrDuplicate):
		return http.StatusBadRequest, ErrorResponse{Error: "duplicate", Message: "Email or phone number already registered"}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid_credentials", Message: "Invalid credentials"}
	case errors.Is(err, common.ErrAccountDisabled):
		return http.StatusUnauthorized, ErrorResponse{Error: "account_disabled", Message: "Account is disabled"}
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Invalid or expired token"}
	case errors.Is(err, common.ErrCodeMismatch):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid_code", Message: "Invalid or expired code"}
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: "Insufficient permissions"}
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Member not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Unexpected server error"}
	}
}

// respondError maps err, logs internals, and writes the response.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err.Error())
	}
	writeJSONError(w, status, resp)
}
