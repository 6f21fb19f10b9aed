package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/middleware"
	"github.com/moins/speechcoach/internal/service"
	"github.com/moins/speechcoach/pkg/response"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	log      zerolog.Logger
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(log zerolog.Logger, profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:      log,
		profiles: profiles,
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.profiles.Get(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, profile)
}

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// Update handles POST /api/v1/profile/update
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, errors.Validation("invalid request body"))
		return
	}

	if err := h.profiles.Update(ctx, middleware.GetUserID(ctx), req.Bio, req.AvatarURL); err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
	})
}

// UploadAvatar handles POST /api/v1/profile/avatar
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse multipart form (5 MB max)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		writeError(w, h.log, errors.Validation("no image provided"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.log, errors.Validation("no image provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.log, errors.InternalWrap("failed to read image", err))
		return
	}

	url, err := h.profiles.UploadAvatar(ctx, middleware.GetUserID(ctx), data, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"avatar_url": url,
	})
}
