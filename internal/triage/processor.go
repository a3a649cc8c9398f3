package triage

// #region imports
import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/danielpatrickdp/support-triage/internal/category"
	"github.com/danielpatrickdp/support-triage/internal/email"
	"github.com/danielpatrickdp/support-triage/internal/llm"
	"github.com/danielpatrickdp/support-triage/internal/prompts"
)

// #endregion

// #region interfaces

// Model is the pair of language-model calls the processor relies on.
type Model interface {
	Classification(ctx context.Context, emailID, prompt string) (string, error)
	Response(ctx context.Context, emailID, prompt string, temperature float64) (string, error)
}

// #endregion

// #region processor-struct

// Processor validates emails and builds and sends the classification and reply prompts.
type Processor struct {
	model       Model
	prompts     *prompts.Catalog
	temperature float64
	log         *slog.Logger
}

// Config configures a Processor. Model is required; the rest default.
type Config struct {
	Model       Model
	Prompts     *prompts.Catalog
	Temperature float64
	Logger      *slog.Logger
}

// #endregion

// #region constructor

// NewProcessor creates a processor with default prompts and the default reply
// temperature when those are unset.
func NewProcessor(cfg Config) *Processor {
	p := &Processor{
		model:       cfg.Model,
		prompts:     cfg.Prompts,
		temperature: cfg.Temperature,
		log:         cfg.Logger,
	}
	if p.prompts == nil {
		p.prompts = prompts.Default()
	}
	if p.temperature == 0 {
		p.temperature = llm.DefaultResponseTemperature
	}
	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// #endregion

// #region validate

// Validate checks that e is well-formed, logging the reason when it is not.
func (p *Processor) Validate(e email.Email) error {
	if err := email.Validate(e); err != nil {
		p.log.Warn("triage: invalid email format", "id", e.ID, "error", err)
		return err
	}
	return nil
}

// #endregion

// #region classify

// Classify asks the model for a category and also returns the model's raw
// answer. ok is false when the call fails or the answer is not a valid
// category.
func (p *Processor) Classify(ctx context.Context, e email.Email) (c category.Category, answer string, ok bool) {
	prompt, err := p.prompts.Classification(category.All(), email.SubjectAndBody(e))
	if err != nil {
		p.log.Warn("triage: classification prompt failed", "id", e.ID, "error", err)
		return "", "", false
	}

	answer, err = p.model.Classification(ctx, e.ID, prompt)
	if err != nil {
		return "", "", false
	}

	c, ok = category.Parse(answer)
	if !ok {
		p.log.Warn("triage: error while classifying email", "id", e.ID, "answer", answer)
		return "", answer, false
	}
	p.log.Debug("triage: classified", "id", e.ID, "category", c)
	return c, answer, true
}

// #endregion

// #region generate

// GenerateResponse produces the automated reply for a classified email.
func (p *Processor) GenerateResponse(ctx context.Context, e email.Email, c category.Category) (string, error) {
	prompt, err := p.prompts.Response(c, email.SubjectAndBody(e))
	if err != nil {
		return "", fmt.Errorf("response prompt for %s: %w", e.ID, err)
	}
	return p.model.Response(ctx, e.ID, prompt, p.temperature)
}

// #endregion
