package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/events"
	"github.com/spec-kit/feedback-desk/internal/repository"
	"github.com/spec-kit/feedback-desk/internal/storage"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// BugReportService coordinates bug report submission and triage.
type BugReportService struct {
	reports     repository.BugReportRepository
	screenshots *storage.ScreenshotStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// BugReportDependencies bundles collaborators for the bug report service.
type BugReportDependencies struct {
	Repo        repository.BugReportRepository
	Screenshots *storage.ScreenshotStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// BugReportSubmission is the public submission payload.
type BugReportSubmission struct {
	Title       string
	Description string
	Screenshot  *storage.Upload
}

// NewBugReportService constructs the service.
func NewBugReportService(deps BugReportDependencies) *BugReportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BugReportService{
		reports:     deps.Repo,
		screenshots: deps.Screenshots,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit validates and stores a new bug report. The title is checked before
// the screenshot; an empty screenshot counts as no attachment.
func (s *BugReportService) Submit(ctx context.Context, in BugReportSubmission) (*domain.BugReport, error) {
	title := trim(in.Title)
	if !check(title, "min=5") {
		return nil, apperrors.NewValidationError("Title is required and must be at least 5 characters long", map[string]any{"field": "title"})
	}

	upload := in.Screenshot
	if upload != nil && upload.Size == 0 {
		upload = nil
	}
	if upload != nil {
		if err := s.screenshots.Validate(upload); err != nil {
			return nil, err
		}
	}

	for attempt := 1; ; attempt++ {
		now := s.now()
		report := &domain.BugReport{
			ID:          newRecordID(bugReportIDPrefix, now),
			Title:       title,
			Description: trim(in.Description),
			SubmittedAt: domain.NewTimestamp(now),
			Status:      domain.BugReportStatusNew,
		}

		if upload != nil {
			path, err := s.screenshots.Save(ctx, report.ID, upload)
			if err != nil {
				return nil, err
			}
			report.ScreenshotPath = path
		}

		err := s.reports.Create(ctx, report)
		if errors.Is(err, repository.ErrDuplicateID) && attempt < maxIDAttempts {
			s.logger.Warn("bug report id collision; regenerating", zap.String("id", report.ID))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, newEvent(events.EventBugReportSubmitted, report.ID, nil, now, events.BugReportSubmittedPayload{
			Title:         report.Title,
			HasScreenshot: report.ScreenshotPath != "",
		}))
		return report, nil
	}
}

// List returns reports newest first, narrowed by filter.
func (s *BugReportService) List(ctx context.Context, filter repository.BugReportFilter) ([]domain.BugReport, error) {
	return s.reports.List(ctx, filter)
}

// UpdateStatus moves a report to status. Any status may follow any other.
func (s *BugReportService) UpdateStatus(ctx context.Context, actor *domain.AdminUser, id, status string) (*domain.BugReport, error) {
	next := domain.BugReportStatus(status)
	if !next.Valid() {
		return nil, apperrors.NewValidationError("Invalid status value", map[string]any{"field": "status"})
	}

	report, err := s.reports.UpdateStatus(ctx, id, next)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Bug report", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, newEvent(events.EventBugReportStatusChanged, report.ID, actor, s.now(), events.StatusChangedPayload{
		Status: string(report.Status),
	}))
	return report, nil
}

// Delete removes a report and returns it. Its screenshot file is kept.
func (s *BugReportService) Delete(ctx context.Context, actor *domain.AdminUser, id string) (*domain.BugReport, error) {
	report, err := s.reports.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Bug report", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, newEvent(events.EventBugReportDeleted, report.ID, actor, s.now(), events.DeletedPayload{
		Summary: report.Title,
	}))
	return report, nil
}

func (s *BugReportService) publish(ctx context.Context, evt events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(evt.Type)), zap.Error(err))
	}
}
