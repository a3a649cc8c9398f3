package pipeline

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielpatrickdp/support-triage/internal/category"
	"github.com/danielpatrickdp/support-triage/internal/email"
	"github.com/danielpatrickdp/support-triage/internal/metrics"
	"github.com/danielpatrickdp/support-triage/internal/store"
)

// #endregion

// #region provenance-stages
const (
	stageValidate = "validate"
	stageClassify = "classify"
	stageRespond  = "respond"
	stageDispatch = "dispatch"
)

// #endregion

// ErrEmptyResponse is returned when the model produced no reply text.
var ErrEmptyResponse = errors.New("empty response")

// #region system-struct

// System runs emails through validate -> classify -> respond -> dispatch.
type System struct {
	cfg Config
}

// New creates a System from a validated config.
func New(cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	return &System{cfg: cfg}, nil
}

// #endregion

// #region process-email

// ProcessEmail runs a single email through the pipeline without run bookkeeping.
func (s *System) ProcessEmail(ctx context.Context, e email.Email) Result {
	return s.process(ctx, "", e)
}

func (s *System) process(ctx context.Context, runID string, e email.Email) (result Result) {
	log := s.cfg.Logger.With("id", e.ID)
	result.EmailID = e.ID
	defer func() {
		result.ProcessedAt = s.cfg.Clock.Now().UTC()
		s.observe(result)
	}()

	if err := s.cfg.Processor.Validate(e); err != nil {
		log.Warn("pipeline: invalid email format", "error", err)
		result.Outcome = OutcomeInvalid
		s.decide(runID, e.ID, stageValidate, "rejected", err.Error())
		return result
	}

	c, answer, ok := s.cfg.Processor.Classify(ctx, e)
	if !ok {
		c = category.Other
		s.decideWithDetail(runID, e.ID, stageClassify, string(c), "classification failed, falling back to other", answerDetail(answer))
	} else {
		s.decideWithDetail(runID, e.ID, stageClassify, string(c), "", answerDetail(answer))
	}
	result.Classification = &c

	response, err := s.cfg.Processor.GenerateResponse(ctx, e, c)
	if err == nil && response == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		s.decide(runID, e.ID, stageRespond, "failed", err.Error())
		return s.fail(ctx, log, result, fmt.Errorf("generate response: %w", err))
	}
	s.decide(runID, e.ID, stageRespond, "generated", "")

	if err := s.cfg.Dispatcher.Dispatch(ctx, c, e, response); err != nil {
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.DispatchErrors.WithLabelValues(string(c)).Inc()
		}
		s.decide(runID, e.ID, stageDispatch, "failed", err.Error())
		return s.fail(ctx, log, result, err)
	}
	s.decide(runID, e.ID, stageDispatch, "sent", "")

	result.Success = true
	result.ResponseSent = true
	result.Outcome = OutcomeSuccess
	return result
}

// fail logs the error and opens a support ticket describing it.
func (s *System) fail(ctx context.Context, log *slog.Logger, result Result, cause error) Result {
	log.Error("pipeline: error while processing email", "error", cause)
	if err := s.cfg.Dispatcher.ReportFailure(ctx, result.EmailID, cause); err != nil {
		log.Error("pipeline: failed to open error ticket", "error", err)
	}
	result.Outcome = OutcomeFailed
	result.Error = cause.Error()
	return result
}

// #endregion

// #region run

// Run processes emails sequentially and returns the aggregate summary. A
// per-email failure never stops the batch; only context cancellation does, in
// which case the partial summary is returned along with ctx.Err().
func (s *System) Run(ctx context.Context, source string, emails []email.Email) (Summary, error) {
	summary := Summary{ByCategory: make(map[category.Category]int)}

	if s.cfg.Recorder != nil {
		run, err := s.cfg.Recorder.StartRun(source, s.cfg.Clock.Now())
		if err != nil {
			return summary, fmt.Errorf("start run: %w", err)
		}
		summary.RunID = run.RunID
	}

	var runErr error
	for _, e := range emails {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		s.cfg.Logger.Info("pipeline: processing email", "id", e.ID, "run", summary.RunID)
		r := s.process(ctx, summary.RunID, e)
		summary.add(r)
		s.record(summary.RunID, r)
	}

	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.FinishRun(summary.RunID, summary.Totals(), s.cfg.Clock.Now()); err != nil {
			s.cfg.Logger.Error("pipeline: failed to finish run", "run", summary.RunID, "error", err)
		}
	}

	s.cfg.Logger.Info("pipeline: run complete",
		"run", summary.RunID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"invalid", summary.Invalid,
	)
	return summary, runErr
}

// #endregion

// #region bookkeeping

func (s *System) record(runID string, r Result) {
	if s.cfg.Recorder == nil || runID == "" {
		return
	}
	err := s.cfg.Recorder.RecordResult(store.ResultRecord{
		RunID:          runID,
		EmailID:        r.EmailID,
		Success:        r.Success,
		Classification: r.ClassificationString(),
		ResponseSent:   r.ResponseSent,
		Error:          r.Error,
		ProcessedAt:    r.ProcessedAt,
	})
	if err != nil {
		s.cfg.Logger.Error("pipeline: failed to record result", "id", r.EmailID, "error", err)
	}
}

func (s *System) decide(runID, emailID, stage, decision, reason string) {
	s.decideWithDetail(runID, emailID, stage, decision, reason, "")
}

func (s *System) decideWithDetail(runID, emailID, stage, decision, reason, detail string) {
	if s.cfg.Recorder == nil || runID == "" {
		return
	}
	err := s.cfg.Recorder.LogDecision(store.ProvenanceEntry{
		RunID:      runID,
		EmailID:    emailID,
		Stage:      stage,
		Decision:   decision,
		Reason:     reason,
		DetailJSON: detail,
		CreatedAt:  s.cfg.Clock.Now().UTC(),
	})
	if err != nil {
		s.cfg.Logger.Error("pipeline: failed to log decision", "id", emailID, "stage", stage, "error", err)
	}
}

// answerDetail is the provenance payload for a classification: the model's
// answer before normalization. A failed call has no answer and no payload.
func answerDetail(answer string) string {
	if answer == "" {
		return ""
	}
	b, err := json.Marshal(struct {
		Answer string `json:"answer"`
	}{answer})
	if err != nil {
		return ""
	}
	return string(b)
}

func (s *System) observe(r Result) {
	m := s.cfg.Metrics
	if m == nil {
		return
	}
	switch r.Outcome {
	case OutcomeSuccess:
		m.EmailsProcessed.WithLabelValues(metrics.OutcomeSuccess).Inc()
	case OutcomeInvalid:
		m.EmailsProcessed.WithLabelValues(metrics.OutcomeInvalid).Inc()
	default:
		m.EmailsProcessed.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
	if r.Classification != nil {
		m.Classifications.WithLabelValues(string(*r.Classification)).Inc()
	}
}

// #endregion
