package events

import (
	"time"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBugReportSubmitted     EventType = "bug_report_submitted"
	EventBugReportStatusChanged EventType = "bug_report_status_changed"
	EventBugReportDeleted       EventType = "bug_report_deleted"
	EventFeedbackSubmitted      EventType = "feedback_submitted"
	EventFeedbackStatusChanged  EventType = "feedback_status_changed"
	EventFeedbackDeleted        EventType = "feedback_deleted"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventBugReportSubmitted,
	EventBugReportStatusChanged,
	EventBugReportDeleted,
	EventFeedbackSubmitted,
	EventFeedbackStatusChanged,
	EventFeedbackDeleted,
}

// Actor identifies who caused an event. Public submissions have no email.
type Actor struct {
	Role  domain.Role `json:"role,omitempty"`
	Email string      `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RecordID  string    `json:"recordId"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// BugReportSubmittedPayload payload.
type BugReportSubmittedPayload struct {
	Title         string `json:"title"`
	HasScreenshot bool   `json:"hasScreenshot"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Rating   int    `json:"rating"`
	Category string `json:"category"`
}

// StatusChangedPayload is shared by both record kinds.
type StatusChangedPayload struct {
	Status string `json:"status"`
}

// DeletedPayload carries a short description of the removed record.
type DeletedPayload struct {
	Summary string `json:"summary"`
}
