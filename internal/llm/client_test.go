package llm

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"openai", ProviderOpenAI, false},
		{" Anthropic ", ProviderAnthropic, false},
		{"GEMINI", ProviderGemini, false},
		{"codec", ProviderCodec, false},
		{"llama", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProvider) {
					t.Fatalf("expected ErrUnknownProvider, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Options{Provider: ProviderOpenAI})
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if oc, ok := c.(*OpenAIClient); !ok || oc.model != "gpt-4o-mini" {
		t.Errorf("expected default openai model, got %#v", c)
	}

	c, err = New(ctx, Options{Provider: ProviderAnthropic, Model: "claude-x"})
	if err != nil {
		t.Fatalf("anthropic: %v", err)
	}
	ac, ok := c.(*AnthropicClient)
	if !ok {
		t.Fatalf("expected *AnthropicClient, got %T", c)
	}
	if string(ac.model) != "claude-x" || ac.maxTokens != 1024 {
		t.Errorf("unexpected anthropic config: model=%s maxTokens=%d", ac.model, ac.maxTokens)
	}

	c, err = New(ctx, Options{Provider: ProviderCodec, CodecAddr: "localhost:0"})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	closer, ok := c.(io.Closer)
	if !ok {
		t.Fatal("codec client should be closable")
	}
	closer.Close()

	_, err = New(ctx, Options{Provider: "nope"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}
