package dispatch

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/support-triage/internal/category"
	"github.com/danielpatrickdp/support-triage/internal/email"
)

// #region handler

// Handler routes one answered email to the downstream services.
type Handler func(ctx context.Context, e email.Email, response string) error

// Dispatcher maps each category to its handler.
type Dispatcher struct {
	services Services
	handlers map[category.Category]Handler
}

// NewDispatcher builds the standard handler table over services.
func NewDispatcher(services Services) *Dispatcher {
	d := &Dispatcher{services: services}
	d.handlers = map[category.Category]Handler{
		category.Complaint:      d.handleComplaint,
		category.Inquiry:        d.handleInquiry,
		category.Feedback:       d.handleFeedback,
		category.SupportRequest: d.handleSupportRequest,
		category.Other:          d.handleOther,
	}
	return d
}

// #endregion handler

// #region dispatch

// Dispatch runs the handler for c, falling back to the other handler for
// categories without one.
func (d *Dispatcher) Dispatch(ctx context.Context, c category.Category, e email.Email, response string) error {
	h, ok := d.handlers[c]
	if !ok {
		h = d.handleOther
	}
	if err := h(ctx, e, response); err != nil {
		return fmt.Errorf("dispatch %s for %s: %w", c, e.ID, err)
	}
	return nil
}

// ReportFailure opens a support ticket describing a processing error.
func (d *Dispatcher) ReportFailure(ctx context.Context, emailID string, cause error) error {
	return d.services.CreateSupportTicket(ctx, emailID, "Error: "+cause.Error())
}

// #endregion dispatch

// #region handlers

func (d *Dispatcher) handleComplaint(ctx context.Context, e email.Email, response string) error {
	if err := d.services.CreateUrgentTicket(ctx, e.ID, category.Complaint, email.SubjectAndBody(e)); err != nil {
		return err
	}
	return d.services.SendComplaintResponse(ctx, e.ID, response)
}

func (d *Dispatcher) handleInquiry(ctx context.Context, e email.Email, response string) error {
	return d.services.SendStandardResponse(ctx, e.ID, response)
}

func (d *Dispatcher) handleFeedback(ctx context.Context, e email.Email, response string) error {
	if err := d.services.LogCustomerFeedback(ctx, e.ID, email.SubjectAndBody(e)); err != nil {
		return err
	}
	return d.services.SendStandardResponse(ctx, e.ID, response)
}

func (d *Dispatcher) handleSupportRequest(ctx context.Context, e email.Email, response string) error {
	if err := d.services.CreateSupportTicket(ctx, e.ID, email.SubjectAndBody(e)); err != nil {
		return err
	}
	return d.services.SendStandardResponse(ctx, e.ID, response)
}

func (d *Dispatcher) handleOther(ctx context.Context, e email.Email, response string) error {
	if err := d.services.CreateSupportTicket(ctx, e.ID, email.SubjectAndBody(e)); err != nil {
		return err
	}
	return d.services.SendStandardResponse(ctx, e.ID, response)
}

// #endregion handlers
