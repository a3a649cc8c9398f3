package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_InMemory(t *testing.T) {
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()
	if _, err := s.StartRun("samples", time.Now()); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
}

func TestStartAndFinishRun(t *testing.T) {
	s := tempDB(t)
	started := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	run, err := s.StartRun("emails.json", started)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.RunID == "" {
		t.Fatal("expected non-empty run ID")
	}

	got, err := s.GetRun(run.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.FinishedAt.IsZero() {
		t.Fatalf("expected unfinished run, got finished_at %v", got.FinishedAt)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("expected started %v, got %v", started, got.StartedAt)
	}

	totals := RunTotals{Total: 5, Succeeded: 3, Failed: 1, Invalid: 1}
	finished := started.Add(time.Minute)
	if err := s.FinishRun(run.RunID, totals, finished); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err = s.GetRun(run.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Totals != totals {
		t.Fatalf("expected totals %+v, got %+v", totals, got.Totals)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Fatalf("expected finished %v, got %v", finished, got.FinishedAt)
	}
}

func TestFinishRun_Unknown(t *testing.T) {
	s := tempDB(t)
	if err := s.FinishRun("nope", RunTotals{}, time.Now()); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run, err := s.StartRun("src", base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("StartRun: %v", err)
		}
		ids = append(ids, run.RunID)
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != ids[2] || runs[1].RunID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestListRuns_SubsecondOrder(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC)

	// .1s and .12s format to different widths in RFC3339Nano.
	first, err := s.StartRun("src", base.Add(100*time.Millisecond))
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	second, err := s.StartRun("src", base.Add(120*time.Millisecond))
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != second.RunID || runs[1].RunID != first.RunID {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if !runs[1].StartedAt.Equal(base.Add(100 * time.Millisecond)) {
		t.Errorf("started_at round trip: got %v", runs[1].StartedAt)
	}
}

func TestRecordAndListResults(t *testing.T) {
	s := tempDB(t)
	run, err := s.StartRun("src", time.Now())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	recs := []ResultRecord{
		{RunID: run.RunID, EmailID: "001", Success: true, Classification: "complaint", ResponseSent: true},
		{RunID: run.RunID, EmailID: "002"},
		{RunID: run.RunID, EmailID: "003", Classification: "other", Error: "generate response: boom"},
	}
	for _, r := range recs {
		if err := s.RecordResult(r); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}

	got, err := s.ListResults(run.RunID)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if !got[0].Success || !got[0].ResponseSent || got[0].Classification != "complaint" {
		t.Errorf("unexpected first result: %+v", got[0])
	}
	if got[1].Classification != "" || got[1].Success {
		t.Errorf("unexpected second result: %+v", got[1])
	}
	if got[2].Error != "generate response: boom" {
		t.Errorf("expected error text, got %q", got[2].Error)
	}
	if got[0].ProcessedAt.IsZero() {
		t.Error("expected auto-filled processed_at")
	}
}

func TestRecordResult_UnknownRunFails(t *testing.T) {
	s := tempDB(t)
	err := s.RecordResult(ResultRecord{RunID: "missing", EmailID: "001"})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestTicketsResponsesFeedback(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	tk, err := s.CreateTicket(ctx, Ticket{EmailID: "001", Kind: TicketUrgent, Category: "complaint", Context: "Subject:\nx"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if tk.TicketID == "" {
		t.Fatal("expected generated ticket id")
	}
	if _, err := s.CreateTicket(ctx, Ticket{EmailID: "001", Kind: TicketSupport, Context: "Error: boom"}); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	tickets, err := s.ListTickets(ctx, "001")
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	if tickets[1].Category != "" {
		t.Errorf("expected empty category, got %q", tickets[1].Category)
	}

	if err := s.RecordResponse(ctx, OutboundResponse{EmailID: "001", Kind: ResponseComplaint, Body: "Sorry"}); err != nil {
		t.Fatalf("RecordResponse: %v", err)
	}
	responses, err := s.ListResponses(ctx, "001")
	if err != nil {
		t.Fatalf("ListResponses: %v", err)
	}
	if len(responses) != 1 || responses[0].Body != "Sorry" || responses[0].Kind != ResponseComplaint {
		t.Fatalf("unexpected responses: %+v", responses)
	}

	if err := s.RecordFeedback(ctx, Feedback{EmailID: "003", Feedback: "Great"}); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}
	n, err := s.CountFeedback(ctx, "003")
	if err != nil {
		t.Fatalf("CountFeedback: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 feedback row, got %d", n)
	}
}
