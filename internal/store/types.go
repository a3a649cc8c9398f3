package store

import "time"

// #region run

// Run is one batch invocation of the pipeline.
type Run struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"` // zero while the run is in progress
	Totals     RunTotals `json:"totals"`
}

// RunTotals are the aggregate counts written when a run finishes.
type RunTotals struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Invalid   int `json:"invalid"`
}

// #endregion run

// #region result

// ResultRecord is one row of email_results.
type ResultRecord struct {
	RunID          string    `json:"run_id"`
	EmailID        string    `json:"email_id"`
	Success        bool      `json:"success"`
	Classification string    `json:"classification,omitempty"` // empty when classification was never reached
	ResponseSent   bool      `json:"response_sent"`
	Error          string    `json:"error,omitempty"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// #endregion result

// #region provenance

// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	RunID      string
	EmailID    string
	Stage      string // "validate" | "classify" | "respond" | "dispatch"
	Decision   string
	Reason     string
	DetailJSON string
	CreatedAt  time.Time
}

// #endregion provenance

// #region downstream

// Ticket kinds.
const (
	TicketUrgent  = "urgent"
	TicketSupport = "support"
)

// Ticket is a ticket opened for an email.
type Ticket struct {
	TicketID  string
	EmailID   string
	Kind      string
	Category  string
	Context   string
	CreatedAt time.Time
}

// Outbound response kinds.
const (
	ResponseComplaint = "complaint"
	ResponseStandard  = "standard"
)

// OutboundResponse is a reply handed to the mail service.
type OutboundResponse struct {
	EmailID   string
	Kind      string
	Body      string
	CreatedAt time.Time
}

// Feedback is customer feedback captured from an email.
type Feedback struct {
	EmailID   string
	Feedback  string
	CreatedAt time.Time
}

// #endregion downstream
