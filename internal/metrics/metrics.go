package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes for emails_processed_total.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Metrics holds the triage collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	EmailsProcessed *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	DispatchErrors  *prometheus.CounterVec
	LLMCallDuration *prometheus.HistogramVec
	LLMCallErrors   *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		EmailsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_emails_processed_total",
			Help: "Emails processed, by outcome.",
		}, []string{"outcome"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_classifications_total",
			Help: "Emails routed per category, including the fallback to other.",
		}, []string{"category"}),
		DispatchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_dispatch_errors_total",
			Help: "Downstream handler failures, by category.",
		}, []string{"category"}),
		LLMCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_llm_call_duration_seconds",
			Help:    "Language-model call latency.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider", "kind"}),
		LLMCallErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_llm_call_errors_total",
			Help: "Failed language-model calls.",
		}, []string{"provider", "kind"}),
	}
	m.Registry.MustRegister(m.EmailsProcessed, m.Classifications, m.DispatchErrors, m.LLMCallDuration, m.LLMCallErrors)
	return m
}

// ObserveLLMCall records the latency and outcome of one model call.
func (m *Metrics) ObserveLLMCall(provider, kind string, d time.Duration, err error) {
	m.LLMCallDuration.WithLabelValues(provider, kind).Observe(d.Seconds())
	if err != nil {
		m.LLMCallErrors.WithLabelValues(provider, kind).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, log *slog.Logger, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics: listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
