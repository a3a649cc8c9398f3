// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/danielpatrickdp/support-triage/internal/llm"
)

// Config holds every setting the triage CLI reads from the environment.
type Config struct {
	Provider            string        `env:"LLM_PROVIDER" envDefault:"openai"`
	Model               string        `env:"LLM_MODEL"`
	MaxTokens           int64         `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	ResponseTemperature float64       `env:"RESPONSE_TEMPERATURE" envDefault:"0.5"`
	Timeout             time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	CodecAddr           string        `env:"CODEC_ADDR" envDefault:"localhost:50051"`
	GeminiAPIKey        string        `env:"GEMINI_API_KEY"`

	DBPath          string `env:"TRIAGE_DB"`
	PromptsFile     string `env:"PROMPTS_FILE"`
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	MetricsAddr     string `env:"METRICS_ADDR"`
}

// ParseEnv parses environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files, then the process environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no backend can use.
func (c *Config) Validate() error {
	if _, err := llm.ParseProvider(c.Provider); err != nil {
		return err
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.ResponseTemperature < 0 || c.ResponseTemperature > 2 {
		return fmt.Errorf("RESPONSE_TEMPERATURE must be within [0, 2], got %g", c.ResponseTemperature)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// LLMOptions maps the config onto client construction options.
func (c Config) LLMOptions() llm.Options {
	p, _ := llm.ParseProvider(c.Provider)
	return llm.Options{
		Provider:     p,
		Model:        c.Model,
		MaxTokens:    c.MaxTokens,
		CodecAddr:    c.CodecAddr,
		GeminiAPIKey: c.GeminiAPIKey,
	}
}
