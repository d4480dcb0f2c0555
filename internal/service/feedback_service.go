package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/events"
	"github.com/spec-kit/feedback-desk/internal/repository"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// FeedbackService coordinates feedback submission and triage.
type FeedbackService struct {
	entries    repository.FeedbackRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// FeedbackDependencies bundles collaborators for the feedback service.
type FeedbackDependencies struct {
	Repo       repository.FeedbackRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// FeedbackSubmission is the public submission payload. A Rating of zero means
// the client sent nothing usable.
type FeedbackSubmission struct {
	Name     string
	Email    string
	Rating   int
	Category string
	Feedback string
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		entries:    deps.Repo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Validate applies the submission rules in order and reports the first failure.
func (s *FeedbackService) Validate(in FeedbackSubmission) error {
	switch {
	case !check(trim(in.Name), "required"):
		return apperrors.NewValidationError("Name is required", map[string]any{"field": "name"})
	case !check(trim(in.Email), "required"):
		return apperrors.NewValidationError("Email is required", map[string]any{"field": "email"})
	case !isEmail(trim(in.Email)):
		return apperrors.NewValidationError("Please enter a valid email address", map[string]any{"field": "email"})
	case !check(in.Rating, "min=1,max=5"):
		return apperrors.NewValidationError("Rating must be between 1 and 5", map[string]any{"field": "rating"})
	case !check(trim(in.Feedback), "min=10"):
		return apperrors.NewValidationError("Feedback must be at least 10 characters long", map[string]any{"field": "feedback"})
	}
	return nil
}

// Submit validates and stores a new feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, in FeedbackSubmission) (*domain.Feedback, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		now := s.now()
		entry := &domain.Feedback{
			ID:          newRecordID(feedbackIDPrefix, now),
			Name:        trim(in.Name),
			Email:       trim(in.Email),
			Rating:      in.Rating,
			Category:    trim(in.Category),
			Feedback:    trim(in.Feedback),
			SubmittedAt: domain.NewTimestamp(now),
			Status:      domain.FeedbackStatusNew,
		}

		err := s.entries.Create(ctx, entry)
		if errors.Is(err, repository.ErrDuplicateID) && attempt < maxIDAttempts {
			s.logger.Warn("feedback id collision; regenerating", zap.String("id", entry.ID))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, newEvent(events.EventFeedbackSubmitted, entry.ID, nil, now, events.FeedbackSubmittedPayload{
			Name:     entry.Name,
			Email:    entry.Email,
			Rating:   entry.Rating,
			Category: entry.DisplayCategory(),
		}))
		return entry, nil
	}
}

// List returns feedback newest first, narrowed by filter.
func (s *FeedbackService) List(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, error) {
	return s.entries.List(ctx, filter)
}

// UpdateStatus moves an entry to status.
func (s *FeedbackService) UpdateStatus(ctx context.Context, actor *domain.AdminUser, id, status string) (*domain.Feedback, error) {
	next := domain.FeedbackStatus(status)
	if !next.Valid() {
		return nil, apperrors.NewValidationError("Invalid status value", map[string]any{"field": "status"})
	}

	entry, err := s.entries.UpdateStatus(ctx, id, next)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Feedback", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, newEvent(events.EventFeedbackStatusChanged, entry.ID, actor, s.now(), events.StatusChangedPayload{
		Status: string(entry.Status),
	}))
	return entry, nil
}

// Delete removes an entry and returns it.
func (s *FeedbackService) Delete(ctx context.Context, actor *domain.AdminUser, id string) (*domain.Feedback, error) {
	entry, err := s.entries.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Feedback", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, newEvent(events.EventFeedbackDeleted, entry.ID, actor, s.now(), events.DeletedPayload{
		Summary: entry.Name + " <" + entry.Email + ">",
	}))
	return entry, nil
}

func (s *FeedbackService) publish(ctx context.Context, evt events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(evt.Type)), zap.Error(err))
	}
}
