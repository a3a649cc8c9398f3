package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region tickets
// CreateTicket stores a ticket, assigning an id and timestamp when unset.
func (s *Store) CreateTicket(ctx context.Context, t Ticket) (Ticket, error) {
	if t.TicketID == "" {
		t.TicketID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (ticket_id, email_id, kind, category, context, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.TicketID, t.EmailID, t.Kind, nullIfEmpty(t.Category), t.Context,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return Ticket{}, fmt.Errorf("create ticket for %s: %w", t.EmailID, err)
	}
	return t, nil
}

// ListTickets returns the tickets opened for an email, oldest first.
func (s *Store) ListTickets(ctx context.Context, emailID string) ([]Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticket_id, email_id, kind, COALESCE(category, ''), context, created_at
		 FROM tickets WHERE email_id = ? ORDER BY created_at, rowid`, emailID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		var t Ticket
		var createdStr string
		if err := rows.Scan(&t.TicketID, &t.EmailID, &t.Kind, &t.Category, &t.Context, &createdStr); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, t)
	}
	return out, rows.Err()
}

// #endregion tickets

// #region responses
// RecordResponse stores an outbound reply.
func (s *Store) RecordResponse(ctx context.Context, r OutboundResponse) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbound_responses (email_id, kind, body, created_at) VALUES (?, ?, ?, ?)`,
		r.EmailID, r.Kind, r.Body, formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record response for %s: %w", r.EmailID, err)
	}
	return nil
}

// ListResponses returns the replies sent for an email, oldest first.
func (s *Store) ListResponses(ctx context.Context, emailID string) ([]OutboundResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email_id, kind, body, created_at FROM outbound_responses WHERE email_id = ? ORDER BY id`, emailID,
	)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []OutboundResponse
	for rows.Next() {
		var r OutboundResponse
		var createdStr string
		if err := rows.Scan(&r.EmailID, &r.Kind, &r.Body, &createdStr); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion responses

// #region feedback
// RecordFeedback stores customer feedback.
func (s *Store) RecordFeedback(ctx context.Context, f Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customer_feedback (email_id, feedback, created_at) VALUES (?, ?, ?)`,
		f.EmailID, f.Feedback, formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record feedback for %s: %w", f.EmailID, err)
	}
	return nil
}

// CountFeedback returns how many feedback rows exist for an email.
func (s *Store) CountFeedback(ctx context.Context, emailID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer_feedback WHERE email_id = ?`, emailID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

// #endregion feedback
