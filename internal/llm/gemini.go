package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements Client using Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client. An empty apiKey lets the SDK
// fall back to GOOGLE_API_KEY / GEMINI_API_KEY.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	return NewGeminiClientWithConfig(ctx, genai.ClientConfig{APIKey: apiKey}, model)
}

// NewGeminiClientWithConfig creates a client from a full SDK config. The
// backend is always the Gemini API.
func NewGeminiClientWithConfig(ctx context.Context, cfg genai.ClientConfig, model string) (*GeminiClient, error) {
	cfg.Backend = genai.BackendGeminiAPI
	client, err := genai.NewClient(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Complete runs a single-turn generation with the system prompt as instruction.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
