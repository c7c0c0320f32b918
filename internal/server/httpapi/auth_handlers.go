package httpapi

import (
	"net/http"

	"github.com/irezaei/memberhub/internal/server/models"
	"github.com/irezaei/memberhub/internal/server/services"
)

type registerRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Password      string `json:"password"`
	Gender        string `json:"gender"`
	TermsAccepted bool   `json:"termsAccepted"`
}

type loginRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	Message string         `json:"message"`
	User    models.Summary `json:"user"`
}

// Register handles POST /api/auth/register. A successful registration
// logs the new member in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	member, token, err := h.members.Register(r.Context(), services.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Password:      req.Password,
		Gender:        req.Gender,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, h.sessionValidity)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "Registration successful",
		User:    member.Summary(),
	})
}

// Login handles POST /api/auth/login. Both the email and the phone number
// must belong to the same account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	member, token, err := h.members.Login(r.Context(), req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, h.sessionValidity)
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		User:    member.Summary(),
	})
}

// Logout handles GET /api/auth/logout by expiring the session cookie.
// The endpoint is deliberately unauthenticated: logging out with a stale
// or missing session still succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me handles GET /api/auth/me and returns the authenticated identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	member := MemberFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]models.Summary{"user": member.Summary()})
}

type otpSendRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type otpVerifyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

// SendOTP handles POST /api/auth/otp/send. The response is the same
// whether or not the phone number belongs to an account.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpSendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.otp.SendCode(r.Context(), req.PhoneNumber); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

// VerifyOTP handles POST /api/auth/otp/verify and exchanges a valid code
// for a short-lived session.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	member, token, err := h.otp.VerifyCode(r.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, h.otpValidity)
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		User:    member.Summary(),
	})
}
