package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/repository"
)

// TextGenerator is the contract for a generative text service: prompt in,
// text out, may fail.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analysis source tags.
const (
	SourceGemini   = "gemini"
	SourceLocalLLM = "local_llm"
)

// AnalyzeReq carries one analysis request. UserID is uuid.Nil for anonymous
// callers.
type AnalyzeReq struct {
	Text         string
	Context      map[string]string
	FeedbackType string
	FeedbackGoal string
	Save         bool
	UserID       uuid.UUID
}

// AnalyzeResult is the analysis plus which model produced it.
type AnalyzeResult struct {
	Analysis string `json:"analysis"`
	Source   string `json:"source"`
}

// AnalysisService orchestrates coaching feedback: primary model first, local
// fallback on failure, then optional persistence.
type AnalysisService struct {
	primary  TextGenerator
	fallback TextGenerator
	sessions repository.SessionRepository
	log      zerolog.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(primary, fallback TextGenerator, sessions repository.SessionRepository, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		primary:  primary,
		fallback: fallback,
		sessions: sessions,
		log:      log,
	}
}

// Analyze produces coaching feedback for the given text. The session is
// persisted only after the result is finalized, and only for authenticated
// callers that opted in with Save.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeReq) (*AnalyzeResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.Validation("no text provided")
	}

	analysis, source, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Save && req.UserID != uuid.Nil {
		contextJSON, err := json.Marshal(req.Context)
		if err != nil || req.Context == nil {
			contextJSON = []byte("{}")
		}

		session := &repository.SpeechSession{
			UserID:        req.UserID,
			Transcription: req.Text,
			Analysis:      analysis,
			Context:       contextJSON,
		}
		if err := s.sessions.Insert(ctx, session); err != nil {
			return nil, errors.StoreWrap("failed to save speech session", err)
		}
	}

	return &AnalyzeResult{Analysis: analysis, Source: source}, nil
}

func (s *AnalysisService) generate(ctx context.Context, req AnalyzeReq) (string, string, error) {
	if s.primary != nil {
		analysis, err := s.primary.Generate(ctx, buildCoachingPrompt(req.Context, req.FeedbackType, req.FeedbackGoal))
		if err == nil {
			return analysis, SourceGemini, nil
		}
		s.log.Warn().Err(err).Msg("Gemini API failed, using local model")
	} else {
		s.log.Warn().Msg("Primary model not configured, using local model")
	}

	if s.fallback == nil {
		return "", "", errors.New(errors.ErrAIService, "no generative model available")
	}

	analysis, err := s.fallback.Generate(ctx, buildFallbackPrompt(req.Text, req.Context))
	if err != nil {
		return "", "", errors.ServiceWrap("local model failed", err)
	}

	return analysis, SourceLocalLLM, nil
}

// Sessions returns the caller's saved sessions, newest first.
func (s *AnalysisService) Sessions(ctx context.Context, userID uuid.UUID) ([]*repository.SpeechSession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.StoreWrap("failed to load sessions", err)
	}
	return sessions, nil
}
