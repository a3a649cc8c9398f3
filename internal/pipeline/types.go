package pipeline

import (
	"context"
	"time"

	"github.com/danielpatrickdp/support-triage/internal/category"
	"github.com/danielpatrickdp/support-triage/internal/email"
	"github.com/danielpatrickdp/support-triage/internal/store"
)

// #region outcome

// Outcome summarizes how far an email got through the pipeline.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// #endregion outcome

// #region result

// Result is the per-email processing record.
type Result struct {
	EmailID        string             `json:"email_id"`
	Success        bool               `json:"success"`
	Classification *category.Category `json:"classification"`
	ResponseSent   bool               `json:"response_sent"`
	Outcome        Outcome            `json:"outcome"`
	Error          string             `json:"error,omitempty"`
	ProcessedAt    time.Time          `json:"processed_at"`
}

// ClassificationString returns the category, or "" when none was assigned.
func (r Result) ClassificationString() string {
	if r.Classification == nil {
		return ""
	}
	return string(*r.Classification)
}

// #endregion result

// #region summary

// Summary aggregates a batch run.
type Summary struct {
	RunID      string                    `json:"run_id,omitempty"`
	Results    []Result                  `json:"results"`
	Total      int                       `json:"total"`
	Succeeded  int                       `json:"succeeded"`
	Failed     int                       `json:"failed"`
	Invalid    int                       `json:"invalid"`
	ByCategory map[category.Category]int `json:"by_category"`
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	s.Total++
	switch r.Outcome {
	case OutcomeSuccess:
		s.Succeeded++
	case OutcomeInvalid:
		s.Invalid++
	default:
		s.Failed++
	}
	if r.Classification != nil {
		s.ByCategory[*r.Classification]++
	}
}

// Totals converts the counts to the store's representation.
func (s Summary) Totals() store.RunTotals {
	return store.RunTotals{Total: s.Total, Succeeded: s.Succeeded, Failed: s.Failed, Invalid: s.Invalid}
}

// #endregion summary

// #region interfaces

// Processor validates, classifies and answers a single email.
type Processor interface {
	Validate(e email.Email) error
	Classify(ctx context.Context, e email.Email) (c category.Category, answer string, ok bool)
	GenerateResponse(ctx context.Context, e email.Email, c category.Category) (string, error)
}

// Dispatcher routes an answered email and reports failures.
type Dispatcher interface {
	Dispatch(ctx context.Context, c category.Category, e email.Email, response string) error
	ReportFailure(ctx context.Context, emailID string, cause error) error
}

// Recorder persists runs, results and the decision trail.
type Recorder interface {
	StartRun(source string, startedAt time.Time) (store.Run, error)
	FinishRun(runID string, totals store.RunTotals, finishedAt time.Time) error
	RecordResult(rec store.ResultRecord) error
	LogDecision(entry store.ProvenanceEntry) error
}

// #endregion interfaces
