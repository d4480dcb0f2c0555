package dashboard

import (
	"context"
	"fmt"
	"io"

	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/repository"
)

// BugReportLister is satisfied by the bug report service and repository.
type BugReportLister interface {
	List(ctx context.Context, filter repository.BugReportFilter) ([]domain.BugReport, error)
}

// FeedbackLister is satisfied by the feedback service and repository.
type FeedbackLister interface {
	List(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, error)
}

// Service backs the admin overview and CSV exports.
type Service struct {
	reports  BugReportLister
	feedback FeedbackLister
}

// NewService constructs the dashboard service.
func NewService(reports BugReportLister, feedback FeedbackLister) *Service {
	return &Service{reports: reports, feedback: feedback}
}

// Stats aggregates the full, unfiltered collections.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	reports, err := s.reports.List(ctx, repository.BugReportFilter{})
	if err != nil {
		return Stats{}, fmt.Errorf("list bug reports: %w", err)
	}
	entries, err := s.feedback.List(ctx, repository.FeedbackFilter{})
	if err != nil {
		return Stats{}, fmt.Errorf("list feedback: %w", err)
	}
	return ComputeStats(reports, entries), nil
}

// ExportBugReports writes the filtered reports as CSV and returns the row count.
func (s *Service) ExportBugReports(ctx context.Context, w io.Writer, filter repository.BugReportFilter) (int, error) {
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list bug reports: %w", err)
	}
	return len(reports), WriteBugReportsCSV(w, reports)
}

// ExportFeedback writes the filtered entries as CSV and returns the row count.
func (s *Service) ExportFeedback(ctx context.Context, w io.Writer, filter repository.FeedbackFilter) (int, error) {
	entries, err := s.feedback.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list feedback: %w", err)
	}
	return len(entries), WriteFeedbackCSV(w, entries)
}
