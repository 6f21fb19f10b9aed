package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moins/speechcoach/internal/client"
)

// SpeechSession is one analyzed speech with its coaching feedback. Rows are
// immutable once written.
type SpeechSession struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Transcription string          `json:"transcription"`
	Analysis      string          `json:"analysis"`
	Context       json.RawMessage `json:"context"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SessionRepository defines data access for speech sessions.
type SessionRepository interface {
	Insert(ctx context.Context, session *SpeechSession) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SpeechSession, error)
	ListTranscriptions(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// PostgresSessionRepository implements SessionRepository with PostgreSQL.
type PostgresSessionRepository struct {
	db *client.PostgresClient
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository.
func NewPostgresSessionRepository(db *client.PostgresClient) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Insert writes a new speech session.
func (r *PostgresSessionRepository) Insert(ctx context.Context, session *SpeechSession) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	if len(session.Context) == 0 {
		session.Context = json.RawMessage("{}")
	}

	query := `
		INSERT INTO speech_sessions (user_id, transcription, analysis, context)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		session.UserID,
		session.Transcription,
		session.Analysis,
		session.Context,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert speech session: %w", err)
	}

	return nil
}

// ListByUser returns a user's sessions, newest first.
func (r *PostgresSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*SpeechSession, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
		SELECT id, user_id, transcription, analysis, context, created_at
		FROM speech_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*SpeechSession, 0)
	for rows.Next() {
		var s SpeechSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Transcription, &s.Analysis, &s.Context, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	return sessions, nil
}

// ListTranscriptions returns only the transcription text of a user's sessions,
// newest first. Full history, not capped.
func (r *PostgresSessionRepository) ListTranscriptions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
		SELECT transcription
		FROM speech_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcriptions: %w", err)
	}
	defer rows.Close()

	transcriptions := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan transcription: %w", err)
		}
		transcriptions = append(transcriptions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcriptions: %w", err)
	}

	return transcriptions, nil
}
