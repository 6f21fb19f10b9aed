package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	apperrors "github.com/moins/speechcoach/internal/errors"
	"github.com/moins/speechcoach/internal/logger"
)

type fakeTranscriber struct {
	text    string
	err     error
	gotPath string
	gotData []byte
}

func (f *fakeTranscriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	f.gotPath = path
	f.gotData, _ = os.ReadFile(path)
	return f.text, f.err
}

func TestTranscribeSuccess(t *testing.T) {
	asr := &fakeTranscriber{text: "hello world"}
	svc := NewTranscriptionService(asr, logger.NewNop())

	got, err := svc.Transcribe(context.Background(), "speech.wav", strings.NewReader("RIFF-audio-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("transcription = %q, want %q", got, "hello world")
	}
	if string(asr.gotData) != "RIFF-audio-bytes" {
		t.Errorf("ASR did not receive the uploaded bytes: %q", asr.gotData)
	}
	if !strings.HasSuffix(asr.gotPath, ".wav") {
		t.Errorf("temp file should keep the upload extension: %q", asr.gotPath)
	}
	if _, err := os.Stat(asr.gotPath); !os.IsNotExist(err) {
		t.Errorf("temp file %q still exists after success", asr.gotPath)
	}
}

func TestTranscribeServiceError(t *testing.T) {
	asr := &fakeTranscriber{err: errors.New("decode failed")}
	svc := NewTranscriptionService(asr, logger.NewNop())

	_, err := svc.Transcribe(context.Background(), "speech.ogg", strings.NewReader("bytes"))
	if err == nil {
		t.Fatal("expected error from ASR failure")
	}
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.ErrAIService {
		t.Fatalf("expected AI_SERVICE_ERROR, got %v", err)
	}
	if !strings.Contains(appErr.Error(), "decode failed") {
		t.Errorf("error should carry the underlying message: %v", appErr)
	}
	if _, statErr := os.Stat(asr.gotPath); !os.IsNotExist(statErr) {
		t.Errorf("temp file %q still exists after ASR failure", asr.gotPath)
	}
}

func TestTranscribeNoExtensionDefaultsWav(t *testing.T) {
	asr := &fakeTranscriber{text: "ok"}
	svc := NewTranscriptionService(asr, logger.NewNop())

	if _, err := svc.Transcribe(context.Background(), "blob", strings.NewReader("bytes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(asr.gotPath, ".wav") {
		t.Errorf("extensionless upload should default to .wav: %q", asr.gotPath)
	}
}

func TestTranscribeNotConfigured(t *testing.T) {
	svc := NewTranscriptionService(nil, logger.NewNop())

	_, err := svc.Transcribe(context.Background(), "speech.wav", strings.NewReader("bytes"))
	if err == nil {
		t.Fatal("expected error when ASR is not configured")
	}
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.ErrAIService {
		t.Fatalf("expected AI_SERVICE_ERROR, got %v", err)
	}
}
