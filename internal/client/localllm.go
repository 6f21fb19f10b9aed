package client

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// LocalLLMClient wraps a locally hosted OpenAI-compatible completion server
// (llama.cpp / Ollama). It is the fallback generative service: lower quality
// than Gemini, but always reachable.
type LocalLLMClient struct {
	client *openai.Client
	model  string
}

// NewLocalLLMClient creates a client pointed at a local inference server.
// Start one with e.g.: ollama serve (tinyllama pulled).
func NewLocalLLMClient(baseURL, model string) *LocalLLMClient {
	cfg := openai.DefaultConfig("")
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "tinyllama"
	}

	return &LocalLLMClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// WithModel sets the model to use.
func (c *LocalLLMClient) WithModel(model string) *LocalLLMClient {
	c.model = model
	return c
}

// Generate sends a prompt and returns the generated text.
func (c *LocalLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
