package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/client"
	"github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/repository"
)

// Profile is the outward profile shape, with empty-string defaults.
type Profile struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// ProfileService handles profile reads, upserts and avatar uploads.
type ProfileService struct {
	profiles repository.ProfileRepository
	storage  *client.R2Client
	log      zerolog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles repository.ProfileRepository, storage *client.R2Client, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		storage:  storage,
		log:      log,
	}
}

// Get returns the user's profile, defaulting to empty fields when no row
// exists yet.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.StoreWrap("failed to load profile", err)
	}

	profile := &Profile{}
	if row != nil {
		if row.Bio != nil {
			profile.Bio = *row.Bio
		}
		if row.AvatarURL != nil {
			profile.AvatarURL = *row.AvatarURL
		}
	}
	return profile, nil
}

// Update upserts the profile with the given fields. Calling it twice with the
// same values leaves exactly one row.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, bio, avatarURL *string) error {
	err := s.profiles.Upsert(ctx, &repository.UserProfile{
		UserID:    userID,
		Bio:       bio,
		AvatarURL: avatarURL,
	})
	if err != nil {
		return errors.StoreWrap("failed to update profile", err)
	}
	return nil
}

// UploadAvatar stores the image on R2 and points the profile's avatar_url at
// it, preserving the existing bio.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	if s.storage == nil {
		return "", errors.New(errors.ErrInternal, "avatar storage not configured")
	}
	if len(data) == 0 {
		return "", errors.Validation("no image provided")
	}

	ext := ".png"
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		ext = ".jpg"
	case strings.Contains(contentType, "webp"):
		ext = ".webp"
	}

	key := fmt.Sprintf("avatars/%s-%s%s", userID, uuid.New().String()[:8], ext)
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", errors.InternalWrap("failed to upload avatar", err)
	}

	existing, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return "", errors.StoreWrap("failed to load profile", err)
	}

	var bio *string
	if existing != nil {
		bio = existing.Bio
	}
	if err := s.Update(ctx, userID, bio, &url); err != nil {
		return "", err
	}

	return url, nil
}
