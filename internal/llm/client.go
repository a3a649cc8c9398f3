package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCompletion = errors.New("empty completion")
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// #region types

// Request is a single system + user prompt exchange.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Client sends one prompt to a model and returns its text reply.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider names a model backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderCodec     Provider = "codec"
)

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-haiku-4-5",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderCodec:     "default",
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := DefaultModels[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return p, nil
}

// #endregion types

// #region factory

// Options selects and configures a backend.
type Options struct {
	Provider     Provider
	Model        string
	MaxTokens    int64
	CodecAddr    string
	GeminiAPIKey string
}

// New builds the client for opts.Provider. Clients holding connections
// implement io.Closer.
func New(ctx context.Context, opts Options) (Client, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModels[opts.Provider]
	}
	switch opts.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(model), nil
	case ProviderAnthropic:
		maxTokens := opts.MaxTokens
		if maxTokens <= 0 {
			maxTokens = 1024
		}
		return NewAnthropicClient(model, maxTokens), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, opts.GeminiAPIKey, model)
	case ProviderCodec:
		return NewCodecClient(opts.CodecAddr, model)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}

// #endregion factory
