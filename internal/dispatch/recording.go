package dispatch

import (
	"context"

	"github.com/danielpatrickdp/support-triage/internal/category"
	"github.com/danielpatrickdp/support-triage/internal/store"
)

// Recorder is the part of the store that downstream actions are written to.
type Recorder interface {
	CreateTicket(ctx context.Context, t store.Ticket) (store.Ticket, error)
	RecordResponse(ctx context.Context, r store.OutboundResponse) error
	RecordFeedback(ctx context.Context, f store.Feedback) error
}

// RecordingServices persists every downstream action.
type RecordingServices struct {
	rec Recorder
}

// NewRecordingServices wraps a Recorder.
func NewRecordingServices(rec Recorder) *RecordingServices {
	return &RecordingServices{rec: rec}
}

func (s *RecordingServices) SendComplaintResponse(ctx context.Context, emailID, response string) error {
	return s.rec.RecordResponse(ctx, store.OutboundResponse{EmailID: emailID, Kind: store.ResponseComplaint, Body: response})
}

func (s *RecordingServices) SendStandardResponse(ctx context.Context, emailID, response string) error {
	return s.rec.RecordResponse(ctx, store.OutboundResponse{EmailID: emailID, Kind: store.ResponseStandard, Body: response})
}

func (s *RecordingServices) CreateUrgentTicket(ctx context.Context, emailID string, c category.Category, text string) error {
	_, err := s.rec.CreateTicket(ctx, store.Ticket{EmailID: emailID, Kind: store.TicketUrgent, Category: string(c), Context: text})
	return err
}

func (s *RecordingServices) CreateSupportTicket(ctx context.Context, emailID, text string) error {
	_, err := s.rec.CreateTicket(ctx, store.Ticket{EmailID: emailID, Kind: store.TicketSupport, Context: text})
	return err
}

func (s *RecordingServices) LogCustomerFeedback(ctx context.Context, emailID, feedback string) error {
	return s.rec.RecordFeedback(ctx, store.Feedback{EmailID: emailID, Feedback: feedback})
}
