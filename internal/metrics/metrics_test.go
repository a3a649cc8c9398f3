package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLLMCall(t *testing.T) {
	m := New()
	m.ObserveLLMCall("openai", "classification", 120*time.Millisecond, nil)
	m.ObserveLLMCall("openai", "classification", 80*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1, testutil.CollectAndCount(m.LLMCallDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LLMCallErrors.WithLabelValues("openai", "classification")))
}

func TestCounters(t *testing.T) {
	m := New()
	m.EmailsProcessed.WithLabelValues(OutcomeSuccess).Inc()
	m.EmailsProcessed.WithLabelValues(OutcomeSuccess).Inc()
	m.EmailsProcessed.WithLabelValues(OutcomeInvalid).Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.EmailsProcessed.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EmailsProcessed.WithLabelValues(OutcomeInvalid)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Classifications.WithLabelValues("complaint").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `triage_classifications_total{category="complaint"} 1`))
}

func TestServe_StopsOnCancel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().Serve(ctx, log, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_BadAddress(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := New().Serve(context.Background(), log, "not-an-address")
	require.Error(t, err)
}
