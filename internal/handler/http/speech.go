package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/middleware"
	"github.com/moins/speechcoach/internal/service"
	"github.com/moins/speechcoach/pkg/response"
)

// SpeechHandler handles transcription, analysis and session endpoints.
type SpeechHandler struct {
	log           zerolog.Logger
	transcription *service.TranscriptionService
	analysis      *service.AnalysisService
}

// NewSpeechHandler creates a new SpeechHandler.
func NewSpeechHandler(
	log zerolog.Logger,
	transcription *service.TranscriptionService,
	analysis *service.AnalysisService,
) *SpeechHandler {
	return &SpeechHandler{
		log:           log,
		transcription: transcription,
		analysis:      analysis,
	}
}

// Transcribe handles POST /api/v1/transcribe
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse multipart form (25 MB max)
	if err := r.ParseMultipartForm(25 << 20); err != nil {
		writeError(w, h.log, errors.Validation("no audio file provided"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.log, errors.Validation("no audio file provided"))
		return
	}
	defer file.Close()

	text, err := h.transcription.Transcribe(ctx, header.Filename, file)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"transcription": text,
	})
}

// AnalyzeRequest represents the request body for text analysis.
type AnalyzeRequest struct {
	Text         string            `json:"text"`
	Context      map[string]string `json:"context"`
	FeedbackType string            `json:"feedback_type"`
	FeedbackGoal string            `json:"feedback_goal"`
	Save         bool              `json:"save"`
}

// Analyze handles POST /api/v1/analyze
func (h *SpeechHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, errors.Validation("invalid request body"))
		return
	}

	result, err := h.analysis.Analyze(ctx, service.AnalyzeReq{
		Text:         req.Text,
		Context:      req.Context,
		FeedbackType: req.FeedbackType,
		FeedbackGoal: req.FeedbackGoal,
		Save:         req.Save,
		UserID:       middleware.GetUserID(ctx),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Sessions handles GET /api/v1/sessions
func (h *SpeechHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessions, err := h.analysis.Sessions(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, sessions)
}
