package pipeline

import (
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/danielpatrickdp/support-triage/internal/metrics"
)

// Config wires a System. Processor, Dispatcher and Logger are required.
type Config struct {
	Logger     *slog.Logger
	Clock      clockwork.Clock
	Processor  Processor
	Dispatcher Dispatcher

	// Optional.
	Recorder Recorder
	Metrics  *metrics.Metrics
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Processor == nil {
		return errors.New("processor is required")
	}
	if c.Dispatcher == nil {
		return errors.New("dispatcher is required")
	}
	return nil
}
