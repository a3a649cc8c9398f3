package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/danielpatrickdp/support-triage/internal/category"
)

// #region interface

// Services are the downstream systems a triaged email is routed to: the mail
// service, the ticket system and the feedback log.
type Services interface {
	SendComplaintResponse(ctx context.Context, emailID, response string) error
	SendStandardResponse(ctx context.Context, emailID, response string) error
	CreateUrgentTicket(ctx context.Context, emailID string, c category.Category, context string) error
	CreateSupportTicket(ctx context.Context, emailID, context string) error
	LogCustomerFeedback(ctx context.Context, emailID, feedback string) error
}

// #endregion interface

// #region nop

// NopServices ignores every call. Embed it to implement only part of Services.
type NopServices struct{}

func (NopServices) SendComplaintResponse(context.Context, string, string) error { return nil }
func (NopServices) SendStandardResponse(context.Context, string, string) error  { return nil }
func (NopServices) CreateUrgentTicket(context.Context, string, category.Category, string) error {
	return nil
}
func (NopServices) CreateSupportTicket(context.Context, string, string) error { return nil }
func (NopServices) LogCustomerFeedback(context.Context, string, string) error { return nil }

// #endregion nop

// #region log

// LogServices only logs each downstream action. Used for dry runs.
type LogServices struct {
	log *slog.Logger
}

// NewLogServices creates log-only services.
func NewLogServices(log *slog.Logger) *LogServices {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogServices{log: log}
}

func (s *LogServices) SendComplaintResponse(_ context.Context, emailID, _ string) error {
	s.log.Info("dispatch: sending complaint response", "id", emailID)
	return nil
}

func (s *LogServices) SendStandardResponse(_ context.Context, emailID, _ string) error {
	s.log.Info("dispatch: sending standard response", "id", emailID)
	return nil
}

func (s *LogServices) CreateUrgentTicket(_ context.Context, emailID string, c category.Category, _ string) error {
	s.log.Info("dispatch: creating urgent ticket", "id", emailID, "category", c)
	return nil
}

func (s *LogServices) CreateSupportTicket(_ context.Context, emailID, _ string) error {
	s.log.Info("dispatch: creating support ticket", "id", emailID)
	return nil
}

func (s *LogServices) LogCustomerFeedback(_ context.Context, emailID, _ string) error {
	s.log.Info("dispatch: logging feedback", "id", emailID)
	return nil
}

// #endregion log

// #region multi

// Multi fans every call out to all services in order. Every service is called
// even after a failure; the errors are joined.
type Multi []Services

func (m Multi) each(fn func(Services) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) SendComplaintResponse(ctx context.Context, emailID, response string) error {
	return m.each(func(s Services) error { return s.SendComplaintResponse(ctx, emailID, response) })
}

func (m Multi) SendStandardResponse(ctx context.Context, emailID, response string) error {
	return m.each(func(s Services) error { return s.SendStandardResponse(ctx, emailID, response) })
}

func (m Multi) CreateUrgentTicket(ctx context.Context, emailID string, c category.Category, text string) error {
	return m.each(func(s Services) error { return s.CreateUrgentTicket(ctx, emailID, c, text) })
}

func (m Multi) CreateSupportTicket(ctx context.Context, emailID, text string) error {
	return m.each(func(s Services) error { return s.CreateSupportTicket(ctx, emailID, text) })
}

func (m Multi) LogCustomerFeedback(ctx context.Context, emailID, feedback string) error {
	return m.each(func(s Services) error { return s.LogCustomerFeedback(ctx, emailID, feedback) })
}

// #endregion multi
