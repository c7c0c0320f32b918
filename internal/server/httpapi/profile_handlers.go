package httpapi

import (
	"fmt"
	"net/http"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/server/models"
	"github.com/irezaei/memberhub/internal/server/services"
)

type profileUpdateRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phoneNumber"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

// GetProfile handles GET /api/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	member := MemberFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]*models.Member{"user": member})
}

// UpdateProfile handles PUT /api/profile. The request type is the
// allow-list: role and active-flag fields in the payload are simply not
// decoded, so they cannot take effect.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	member := MemberFromContext(r.Context())
	updated, err := h.members.UpdateProfile(r.Context(), member.ID, services.ProfileUpdateInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*models.Member{"user": updated})
}

type avatarUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// CreateAvatarUpload handles POST /api/profile/avatar: it presigns an
// upload URL and records the object key on the member.
func (h *Handler) CreateAvatarUpload(w http.ResponseWriter, r *http.Request) {
	member := MemberFromContext(r.Context())

	key, url, err := h.avatars.PresignUpload(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if _, err := h.members.SetAvatarKey(r.Context(), member.ID, key); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, avatarUploadResponse{UploadURL: url, Key: key})
}

// GetAvatarDownload handles GET /api/profile/avatar and returns a
// presigned download URL for the member's current profile image.
func (h *Handler) GetAvatarDownload(w http.ResponseWriter, r *http.Request) {
	member := MemberFromContext(r.Context())
	if member.AvatarKey == "" {
		h.respondError(w, r, fmt.Errorf("%w: no profile image", common.ErrNotFound))
		return
	}

	url, err := h.avatars.PresignDownload(r.Context(), member.AvatarKey)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"downloadUrl": url})
}
