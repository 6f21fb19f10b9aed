package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/moins/speechcoach/internal/client"
)

// UserImprovement is an aggregated coaching summary with heuristic scores.
// Append-only; only the most recent row is ever surfaced.
type UserImprovement struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Summary   string          `json:"summary"`
	Scores    json.RawMessage `json:"scores"`
	CreatedAt time.Time       `json:"created_at"`
}

// ImprovementRepository defines data access for improvement records.
type ImprovementRepository interface {
	Insert(ctx context.Context, improvement *UserImprovement) error
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*UserImprovement, error)
}

// PostgresImprovementRepository implements ImprovementRepository with PostgreSQL.
type PostgresImprovementRepository struct {
	db *client.PostgresClient
}

// NewPostgresImprovementRepository creates a new PostgresImprovementRepository.
func NewPostgresImprovementRepository(db *client.PostgresClient) *PostgresImprovementRepository {
	return &PostgresImprovementRepository{db: db}
}

// Insert writes a new improvement record.
func (r *PostgresImprovementRepository) Insert(ctx context.Context, improvement *UserImprovement) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	query := `
		INSERT INTO user_improvements (user_id, summary, scores, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		improvement.UserID,
		improvement.Summary,
		improvement.Scores,
	).Scan(&improvement.ID, &improvement.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert improvement: %w", err)
	}

	return nil
}

// GetLatestByUser returns the newest improvement for a user, or nil if none.
func (r *PostgresImprovementRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*UserImprovement, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
		SELECT id, user_id, summary, scores, created_at
		FROM user_improvements
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var improvement UserImprovement
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&improvement.ID,
		&improvement.UserID,
		&improvement.Summary,
		&improvement.Scores,
		&improvement.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest improvement: %w", err)
	}

	return &improvement, nil
}
