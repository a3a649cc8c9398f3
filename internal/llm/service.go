package llm

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultResponseTemperature is used for reply generation when none is configured.
const DefaultResponseTemperature = 0.5

// Call kinds reported to an Observer.
const (
	KindClassification = "classification"
	KindResponse       = "response"
)

// Observer receives the timing and outcome of every model call.
type Observer interface {
	ObserveLLMCall(provider, kind string, d time.Duration, err error)
}

// ServiceConfig configures a Service. Only Client is required.
type ServiceConfig struct {
	Client   Client
	Provider Provider
	System   string
	Logger   *slog.Logger
	Observer Observer
	Timeout  time.Duration // per call; zero means no limit
}

// Service issues the two calls the triage pipeline needs: classification and
// reply generation, both under the same system prompt.
type Service struct {
	client   Client
	provider Provider
	system   string
	log      *slog.Logger
	observer Observer
	timeout  time.Duration
}

// NewService wraps a Client.
func NewService(cfg ServiceConfig) *Service {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		client:   cfg.Client,
		provider: cfg.Provider,
		system:   cfg.System,
		log:      log,
		observer: cfg.Observer,
		timeout:  cfg.Timeout,
	}
}

// Classification asks for a category at temperature 0 and returns the raw
// answer. Normalizing and checking it against the category set is left to the
// caller.
func (s *Service) Classification(ctx context.Context, emailID, prompt string) (string, error) {
	text, err := s.call(ctx, KindClassification, Request{System: s.system, User: prompt, Temperature: 0})
	if err != nil {
		s.log.Warn("llm: error while classifying", "id", emailID, "error", err)
		return "", err
	}
	return text, nil
}

// Response generates the reply body at the given temperature.
func (s *Service) Response(ctx context.Context, emailID, prompt string, temperature float64) (string, error) {
	text, err := s.call(ctx, KindResponse, Request{System: s.system, User: prompt, Temperature: temperature})
	if err != nil {
		s.log.Warn("llm: error while generating response", "id", emailID, "error", err)
		return "", err
	}
	return text, nil
}

func (s *Service) call(ctx context.Context, kind string, req Request) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	text, err := s.client.Complete(ctx, req)
	if err == nil && text == "" {
		err = ErrEmptyCompletion
	}
	d := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveLLMCall(string(s.provider), kind, d, err)
	}
	s.log.Debug("llm: call completed", "provider", s.provider, "kind", kind, "duration", d, "promptLen", len(req.User))
	if err != nil {
		return "", err
	}
	return text, nil
}
