package dto

import (
	"github.com/spec-kit/feedback-desk/internal/domain"
)

// SubmissionResponse is returned by both public submission endpoints.
type SubmissionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// FeedbackRequest is the JSON feedback payload. Rating accepts a number or a
// numeric string.
type FeedbackRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Rating   any    `json:"rating"`
	Category string `json:"category"`
	Feedback string `json:"feedback"`
}

// StatusUpdateRequest is the admin status transition payload.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// BugReportMutationResponse wraps an updated or deleted report.
type BugReportMutationResponse struct {
	Message string            `json:"message"`
	Report  *domain.BugReport `json:"report"`
}

// FeedbackMutationResponse wraps an updated or deleted feedback entry.
type FeedbackMutationResponse struct {
	Message  string           `json:"message"`
	Feedback *domain.Feedback `json:"feedback"`
}
