package service

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/errors"
)

// Transcriber is the contract for an ASR service: audio file in, text out,
// may fail.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
}

// TranscriptionService handles audio upload transcription.
type TranscriptionService struct {
	asr Transcriber
	log zerolog.Logger
}

// NewTranscriptionService creates a new TranscriptionService.
func NewTranscriptionService(asr Transcriber, log zerolog.Logger) *TranscriptionService {
	return &TranscriptionService{asr: asr, log: log}
}

// Transcribe writes the uploaded audio to a temporary file, transcribes it and
// returns plain text. The temporary file is removed on every exit path.
func (s *TranscriptionService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.asr == nil {
		return "", errors.New(errors.ErrAIService, "ASR service not configured")
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".wav"
	}

	tmp, err := os.CreateTemp("", "speechcoach-*"+ext)
	if err != nil {
		return "", errors.InternalWrap("failed to create temp audio file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, audio); err != nil {
		tmp.Close()
		return "", errors.InternalWrap("failed to write temp audio file", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.InternalWrap("failed to flush temp audio file", err)
	}

	text, err := s.asr.TranscribeFile(ctx, tmp.Name())
	if err != nil {
		return "", errors.ServiceWrap("transcription failed", err)
	}

	return text, nil
}
