package httpapi

import (
	"net/http"

	"github.com/irezaei/memberhub/internal/server/models"
	"github.com/irezaei/memberhub/internal/server/services"
)

type adminCreateRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Gender      string `json:"gender"`
}

type adminUpdateRequest struct {
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Email       *string      `json:"email"`
	PhoneNumber *string      `json:"phoneNumber"`
	Gender      *string      `json:"gender"`
	Password    *string      `json:"password"`
	Role        *models.Role `json:"role"`
	IsActive    *bool        `json:"isActive"`
}

// ListMembers handles GET /api/members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	list, err := h.members.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]*models.Member{"users": list})
}

// MemberStats handles GET /api/members/stats.
func (h *Handler) MemberStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.members.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetMember handles GET /api/members/{id}.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.members.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Member{"user": member})
}

// CreateMember handles POST /api/members.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req adminCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	member, err := h.members.AdminCreate(r.Context(), services.AdminCreateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Gender:      req.Gender,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*models.Member{"user": member})
}

// UpdateMember handles PUT /api/members/{id}.
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req adminUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	member, err := h.members.AdminUpdate(r.Context(), r.PathValue("id"), services.AdminUpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
		Password:    req.Password,
		Role:        req.Role,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*models.Member{"user": member})
}

// DeleteMember handles DELETE /api/members/{id}.
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.members.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member deleted"})
}
