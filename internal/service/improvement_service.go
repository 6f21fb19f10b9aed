package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/repository"
)

// Scores produced on a successful generation. Product has not wired
// content-derived scoring yet; these are the agreed placeholder values.
var generatedScores = map[string]float64{
	"clarity":   4.1,
	"emotion":   3.9,
	"pacing":    4.3,
	"structure": 4.0,
}

// fallbackSummary is stored when the generative service fails.
const fallbackSummary = "Not enough data or model unavailable."

// ImprovementResult is returned by Generate.
type ImprovementResult struct {
	Summary string             `json:"summary"`
	Scores  map[string]float64 `json:"scores"`
}

// LatestImprovement is returned by Latest, with the derived overall score.
type LatestImprovement struct {
	Summary   string             `json:"summary"`
	Scores    map[string]float64 `json:"scores"`
	CreatedAt time.Time          `json:"created_at"`
}

// ImprovementService aggregates a user's session history into an improvement
// record and surfaces the most recent one.
type ImprovementService struct {
	generator    TextGenerator
	sessions     repository.SessionRepository
	improvements repository.ImprovementRepository
	log          zerolog.Logger
}

// NewImprovementService creates a new ImprovementService.
func NewImprovementService(
	generator TextGenerator,
	sessions repository.SessionRepository,
	improvements repository.ImprovementRepository,
	log zerolog.Logger,
) *ImprovementService {
	return &ImprovementService{
		generator:    generator,
		sessions:     sessions,
		improvements: improvements,
		log:          log,
	}
}

// Generate summarizes the user's full session history, persists a new
// improvement record and returns it. A model failure is absorbed: the record
// is still written, with a sentinel summary and zero scores.
func (s *ImprovementService) Generate(ctx context.Context, userID uuid.UUID) (*ImprovementResult, error) {
	transcriptions, err := s.sessions.ListTranscriptions(ctx, userID)
	if err != nil {
		return nil, errors.StoreWrap("failed to load session history", err)
	}
	if len(transcriptions) == 0 {
		return nil, errors.InsufficientData("not enough data to analyze")
	}

	summary, scores := s.summarize(ctx, transcriptions)

	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return nil, errors.InternalWrap("failed to encode scores", err)
	}

	improvement := &repository.UserImprovement{
		UserID:  userID,
		Summary: summary,
		Scores:  scoresJSON,
	}
	if err := s.improvements.Insert(ctx, improvement); err != nil {
		return nil, errors.StoreWrap("failed to save improvement", err)
	}

	return &ImprovementResult{Summary: summary, Scores: scores}, nil
}

func (s *ImprovementService) summarize(ctx context.Context, transcriptions []string) (string, map[string]float64) {
	if s.generator == nil {
		s.log.Warn().Msg("Generative model not configured")
		return fallbackSummary, zeroScores()
	}

	summary, err := s.generator.Generate(ctx, buildImprovementPrompt(transcriptions))
	if err != nil {
		s.log.Warn().Err(err).Msg("LLM failed")
		return fallbackSummary, zeroScores()
	}

	scores := make(map[string]float64, len(generatedScores))
	for k, v := range generatedScores {
		scores[k] = v
	}
	return summary, scores
}

func zeroScores() map[string]float64 {
	return map[string]float64{"clarity": 0, "emotion": 0, "pacing": 0, "structure": 0}
}

// Latest returns the user's newest improvement record. The overall score is
// derived as the mean of clarity, emotion and pacing; structure stays out of
// the average.
func (s *ImprovementService) Latest(ctx context.Context, userID uuid.UUID) (*LatestImprovement, error) {
	improvement, err := s.improvements.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, errors.StoreWrap("failed to load improvement", err)
	}
	if improvement == nil {
		return nil, errors.NotFound("improvement data")
	}

	var stored map[string]float64
	if err := json.Unmarshal(improvement.Scores, &stored); err != nil {
		return nil, errors.InternalWrap("failed to decode scores", err)
	}

	clarity := stored["clarity"]
	emotion := stored["emotion"]
	pacing := stored["pacing"]
	overall := math.Round((clarity+emotion+pacing)/3*100) / 100

	return &LatestImprovement{
		Summary: improvement.Summary,
		Scores: map[string]float64{
			"clarity": clarity,
			"emotion": emotion,
			"pacing":  pacing,
			"overall": overall,
		},
		CreatedAt: improvement.CreatedAt,
	}, nil
}
