package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/support-triage/internal/llm"
)

var configKeys = []string{
	"LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS", "RESPONSE_TEMPERATURE", "LLM_TIMEOUT",
	"CODEC_ADDR", "GEMINI_API_KEY", "TRIAGE_DB", "PROMPTS_FILE", "SLACK_WEBHOOK_URL", "METRICS_ADDR",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, int64(1024), cfg.MaxTokens)
	assert.Equal(t, 0.5, cfg.ResponseTemperature)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "localhost:50051", cfg.CodecAddr)
	assert.Empty(t, cfg.DBPath)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_DotenvAndOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LLM_PROVIDER=anthropic\nTRIAGE_DB=triage.db\nLLM_MAX_TOKENS=256\n"), 0o600))
	t.Setenv("LLM_MAX_TOKENS", "512")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "triage.db", cfg.DBPath)
	assert.Equal(t, int64(512), cfg.MaxTokens, "process env wins over the dotenv file")

	opts := cfg.LLMOptions()
	assert.Equal(t, llm.ProviderAnthropic, opts.Provider)
	assert.Equal(t, int64(512), opts.MaxTokens)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unknown provider", "LLM_PROVIDER", "mistral", "unknown llm provider"},
		{"non-numeric tokens", "LLM_MAX_TOKENS", "lots", "parse env"},
		{"negative tokens", "LLM_MAX_TOKENS", "-1", "LLM_MAX_TOKENS"},
		{"temperature too high", "RESPONSE_TEMPERATURE", "3", "RESPONSE_TEMPERATURE"},
		{"zero timeout", "LLM_TIMEOUT", "0s", "LLM_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load(filepath.Join(t.TempDir(), "none.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false)
	log.Debug("hidden")
	log.Info("shown", "empty", "", "id", "001")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "001")
	assert.False(t, strings.Contains(out, "empty="), "empty string attrs are dropped")

	buf.Reset()
	NewLogger(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestFormatRFC3339Millis(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("x", 3600))
	assert.Equal(t, "2026-03-04T04:06:07.891Z", formatRFC3339Millis(ts))
}
