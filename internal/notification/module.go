// Package notification provides event handlers for sending notifications
// in response to domain events.
// This module subscribes to events and inverts the dependency: the inquiries
// module does not need to know about email providers or templates.
package notification

import (
	"context"
	"fmt"

	"codemasters_backend/internal/email"
	"codemasters_backend/internal/events"
	"codemasters_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender  email.Sender
	staffTo string
	log     *logger.Logger
}

// New creates the notification module. An empty staffTo disables sending.
func New(sender email.Sender, staffTo string, log *logger.Logger) *Module {
	return &Module{
		sender:  sender,
		staffTo: staffTo,
		log:     log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.InquiryReceived{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.InquiryReceived:
		return m.handleInquiryReceived(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleInquiryReceived(ctx context.Context, e events.InquiryReceived) error {
	if m.staffTo == "" {
		return nil
	}

	err := m.sender.SendInquiryNotification(ctx, m.staffTo, email.InquiryNotification{
		CreatedAt:   e.CreatedAt,
		Name:        e.Name,
		Phone:       e.Phone,
		Email:       e.Email,
		ProjectType: e.ProjectType,
		Deadline:    e.Deadline,
		Budget:      e.Budget,
		Message:     e.Message,
		Source:      e.Source,
		Location:    e.Location,
		SavedTo:     e.SavedTo,
	})
	if err != nil {
		m.log.Error("failed to send inquiry notification", "error", err)
		return fmt.Errorf("inquiry notification: %w", err)
	}

	m.log.Info("inquiry notification sent", "projectType", e.ProjectType)
	return nil
}

var _ events.Handler = (*Module)(nil)
