package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/moins/speechcoach/internal/client"
)

// UserProfile holds optional profile fields. At most one row per user.
type UserProfile struct {
	UserID    uuid.UUID `json:"user_id"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatar_url"`
}

// ProfileRepository defines data access for user profiles.
type ProfileRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	Upsert(ctx context.Context, profile *UserProfile) error
}

// PostgresProfileRepository implements ProfileRepository with PostgreSQL.
type PostgresProfileRepository struct {
	db *client.PostgresClient
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository.
func NewPostgresProfileRepository(db *client.PostgresClient) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetByUser returns the profile row for a user, or nil if none exists.
func (r *PostgresProfileRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
		SELECT user_id, bio, avatar_url
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile UserProfile
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.AvatarURL,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Upsert inserts the profile or replaces its fields, keyed by user_id.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *UserProfile) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	query := `
		INSERT INTO user_profiles (user_id, bio, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url
	`

	_, err := r.db.Pool.Exec(ctx, query, profile.UserID, profile.Bio, profile.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
