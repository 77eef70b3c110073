// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"codemasters_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Inquiry Domain Events
// =============================================================================

// InquiryReceived is published after an inquiry was accepted by at least
// one sink (or every sink was skipped).
type InquiryReceived struct {
	BaseEvent
	CreatedAt   string   `json:"createdAt"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	ProjectType string   `json:"projectType"`
	Deadline    string   `json:"deadline"`
	Budget      string   `json:"budget"`
	Message     string   `json:"message"`
	Source      string   `json:"source"`
	Location    string   `json:"location"`
	SavedTo     []string `json:"savedTo"`
}

func (e InquiryReceived) EventName() string { return "inquiries.inquiry.received" }
