// Package common defines shared constants and sentinel errors used across
// the memberhub server layers. Callers should use errors.Is to match these
// values; the HTTP layer maps each kind to a status code and a generic
// client-facing message.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")

	// Validation errors (missing or malformed request fields).
	ErrValidation = errors.New("validation error")

	// Authentication errors. ErrInvalidCredentials is intentionally shared
	// by the unknown-account and wrong-password cases so the two are
	// indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Authorization error (authenticated but insufficient role).
	ErrForbidden = errors.New("forbidden")

	// One-time code errors.
	ErrCodeMismatch = errors.New("code mismatch")

	// Generic internal/unexpected failure. Detail is logged server-side
	// only and never returned to the client.
	ErrInternal = errors.New("internal error")
)
