package client

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperClient wraps an OpenAI-compatible audio transcription endpoint.
// Works against the hosted Whisper API or a local whisper.cpp server, e.g.:
// ./server -m models/ggml-base.en.bin --port 8178
type WhisperClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewWhisperClient creates a new Whisper transcription client.
func NewWhisperClient(baseURL, apiKey string, timeout time.Duration) *WhisperClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &WhisperClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   openai.Whisper1,
		timeout: timeout,
	}
}

// TranscribeFile transcribes the audio file at path and returns plain text.
// Whisper can take a while on large files, so the timeout is generous.
func (c *WhisperClient) TranscribeFile(ctx context.Context, path string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
	})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
