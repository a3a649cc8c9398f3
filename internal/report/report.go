// Package report renders pipeline summaries, validation results and stored
// runs for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/danielpatrickdp/support-triage/internal/pipeline"
	"github.com/danielpatrickdp/support-triage/internal/store"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

// WriteJSON emits v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// #region summary

// Summary prints one row per processed email followed by the run totals.
func Summary(w io.Writer, s pipeline.Summary) {
	table := newTable(w, []string{"email_id", "success", "classification", "response_sent"})
	for _, r := range s.Results {
		table.Append([]string{
			r.EmailID,
			strconv.FormatBool(r.Success),
			orNone(r.ClassificationString()),
			strconv.FormatBool(r.ResponseSent),
		})
	}
	table.Render()

	fmt.Fprintf(w, "total=%d succeeded=%d failed=%d invalid=%d", s.Total, s.Succeeded, s.Failed, s.Invalid)
	if s.RunID != "" {
		fmt.Fprintf(w, " run=%s", s.RunID)
	}
	fmt.Fprintln(w)
}

// #endregion summary

// #region validation

// ValidationRow is the outcome of validating one record.
type ValidationRow struct {
	EmailID string `json:"email_id"`
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
}

// Validation prints a valid/invalid table and returns the number of invalid rows.
func Validation(w io.Writer, rows []ValidationRow) int {
	invalid := 0
	table := newTable(w, []string{"email_id", "valid", "reason"})
	for _, r := range rows {
		if !r.Valid {
			invalid++
		}
		table.Append([]string{r.EmailID, strconv.FormatBool(r.Valid), r.Reason})
	}
	table.Render()
	fmt.Fprintf(w, "%d of %d records invalid\n", invalid, len(rows))
	return invalid
}

// #endregion validation

// #region stored

// Runs lists stored runs.
func Runs(w io.Writer, runs []store.Run) {
	table := newTable(w, []string{"run_id", "source", "started", "finished", "total", "succeeded", "failed", "invalid"})
	for _, r := range runs {
		finished := "running"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.UTC().Format(time.RFC3339)
		}
		table.Append([]string{
			r.RunID,
			r.Source,
			r.StartedAt.UTC().Format(time.RFC3339),
			finished,
			strconv.Itoa(r.Totals.Total),
			strconv.Itoa(r.Totals.Succeeded),
			strconv.Itoa(r.Totals.Failed),
			strconv.Itoa(r.Totals.Invalid),
		})
	}
	table.Render()
}

// Results lists the stored per-email results of one run.
func Results(w io.Writer, results []store.ResultRecord) {
	table := newTable(w, []string{"email_id", "success", "classification", "response_sent", "error"})
	for _, r := range results {
		table.Append([]string{
			r.EmailID,
			strconv.FormatBool(r.Success),
			orNone(r.Classification),
			strconv.FormatBool(r.ResponseSent),
			r.Error,
		})
	}
	table.Render()
}

// #endregion stored

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
