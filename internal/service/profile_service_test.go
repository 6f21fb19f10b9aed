package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/logger"
	"github.com/moins/speechcoach/internal/repository"
)

type fakeProfileRepo struct {
	rows    map[uuid.UUID]*repository.UserProfile
	upserts int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: make(map[uuid.UUID]*repository.UserProfile)}
}

func (f *fakeProfileRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*repository.UserProfile, error) {
	return f.rows[userID], nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *repository.UserProfile) error {
	f.upserts++
	f.rows[profile.UserID] = profile
	return nil
}

func strPtr(s string) *string { return &s }

func TestProfileGetDefaults(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), nil, logger.NewNop())

	profile, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Bio != "" || profile.AvatarURL != "" {
		t.Errorf("missing row should default to empty fields: %+v", profile)
	}
}

func TestProfileUpdateIdempotent(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, nil, logger.NewNop())
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := svc.Update(context.Background(), userID, strPtr("speaker in training"), strPtr("https://cdn.example.com/a.png")); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}

	if len(repo.rows) != 1 {
		t.Fatalf("rows = %d, want exactly 1 per user", len(repo.rows))
	}

	profile, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Bio != "speaker in training" || profile.AvatarURL != "https://cdn.example.com/a.png" {
		t.Errorf("unexpected profile after repeated update: %+v", profile)
	}
}

func TestProfileUpdateNilFields(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, nil, logger.NewNop())
	userID := uuid.New()

	if err := svc.Update(context.Background(), userID, nil, nil); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	profile, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Bio != "" || profile.AvatarURL != "" {
		t.Errorf("nil fields should read back as empty strings: %+v", profile)
	}
}

func TestUploadAvatarNotConfigured(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), nil, logger.NewNop())

	_, err := svc.UploadAvatar(context.Background(), uuid.New(), []byte("png-bytes"), "image/png")
	if err == nil {
		t.Fatal("expected error without storage configured")
	}
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.ErrInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}
