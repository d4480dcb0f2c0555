package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/events"
	"github.com/spec-kit/feedback-desk/internal/repository"
	"github.com/spec-kit/feedback-desk/internal/storage"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

var bugIDPattern = regexp.MustCompile(`^bug-\d+-[a-z0-9]{9}$`)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newRecordingDispatcher() (events.Dispatcher, *eventRecorder) {
	d := events.NewInMemoryDispatcher(nil)
	rec := &eventRecorder{}
	for _, t := range events.AllEventTypes {
		d.Subscribe(t, rec.record)
	}
	return d, rec
}

func newBugReportService(t *testing.T) (*BugReportService, repository.BugReportRepository, *eventRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	repo := repository.NewFileBugReportRepository(filepath.Join(dir, "data", "bug-reports.json"), nil)
	uploads := filepath.Join(dir, "public", "bug-reports")
	d, rec := newRecordingDispatcher()
	svc := NewBugReportService(BugReportDependencies{
		Repo:        repo,
		Screenshots: storage.NewScreenshotStore(uploads),
		Dispatcher:  d,
	})
	return svc, repo, rec, uploads
}

func pngUpload(size int) *storage.Upload {
	data := bytes.Repeat([]byte{1}, size)
	return &storage.Upload{
		FileName:    "screen.png",
		ContentType: "image/png",
		Size:        int64(size),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func TestBugReportService_SubmitWithoutScreenshot(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec, _ := newBugReportService(t)

	report, err := svc.Submit(ctx, BugReportSubmission{Title: "  App crashes  ", Description: " on save "})
	require.NoError(t, err)
	assert.Regexp(t, bugIDPattern, report.ID)
	assert.Equal(t, "App crashes", report.Title)
	assert.Equal(t, "on save", report.Description)
	assert.Equal(t, domain.BugReportStatusNew, report.Status)
	assert.Empty(t, report.ScreenshotPath)

	stored, err := repo.List(ctx, repository.BugReportFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, report.ID, stored[0].ID)
	assert.Equal(t, []events.EventType{events.EventBugReportSubmitted}, rec.types())
}

func TestBugReportService_SubmitRejectsShortTitle(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newBugReportService(t)

	for _, title := range []string{"", "Bug", "   ab   "} {
		_, err := svc.Submit(ctx, BugReportSubmission{Title: title, Screenshot: pngUpload(6 * 1024 * 1024)})
		require.Error(t, err)
		assert.Equal(t, "Title is required and must be at least 5 characters long", apperrors.ToDomainError(err).Message)
	}

	stored, err := repo.List(ctx, repository.BugReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBugReportService_SubmitWithScreenshot(t *testing.T) {
	ctx := context.Background()
	svc, _, _, uploads := newBugReportService(t)

	report, err := svc.Submit(ctx, BugReportSubmission{Title: "Broken layout", Screenshot: pngUpload(4 * 1024 * 1024)})
	require.NoError(t, err)
	assert.Equal(t, "/bug-reports/"+report.ID+".png", report.ScreenshotPath)
	assert.FileExists(t, filepath.Join(uploads, report.ID+".png"))
}

func TestBugReportService_SubmitOversizedScreenshot(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec, _ := newBugReportService(t)

	_, err := svc.Submit(ctx, BugReportSubmission{Title: "Broken layout", Screenshot: pngUpload(6 * 1024 * 1024)})
	require.Error(t, err)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "Screenshot must be less than 5MB", apperrors.ToDomainError(err).Message)

	stored, err := repo.List(ctx, repository.BugReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, rec.types())
}

func TestBugReportService_EmptyScreenshotIsIgnored(t *testing.T) {
	svc, _, _, _ := newBugReportService(t)
	upload := pngUpload(0)
	upload.ContentType = "application/octet-stream"

	report, err := svc.Submit(context.Background(), BugReportSubmission{Title: "Broken layout", Screenshot: upload})
	require.NoError(t, err)
	assert.Empty(t, report.ScreenshotPath)
}

func TestBugReportService_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec, _ := newBugReportService(t)
	admin := &domain.AdminUser{Email: "admin@macwrite.ai", Role: domain.RoleAdmin}

	report, err := svc.Submit(ctx, BugReportSubmission{Title: "Broken layout"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, report.ID, "done")
	require.Error(t, err)
	assert.Equal(t, "Invalid status value", apperrors.ToDomainError(err).Message)

	_, err = svc.UpdateStatus(ctx, admin, "bug-0-missing00", "resolved")
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))

	updated, err := svc.UpdateStatus(ctx, admin, report.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, domain.BugReportStatusResolved, updated.Status)
	assert.Equal(t, report.SubmittedAt, updated.SubmittedAt)

	reopened, err := svc.UpdateStatus(ctx, admin, report.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.BugReportStatusNew, reopened.Status)

	removed, err := svc.Delete(ctx, admin, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, removed.ID)

	_, err = svc.Delete(ctx, admin, report.ID)
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))

	stored, err := repo.List(ctx, repository.BugReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)

	assert.Equal(t, []events.EventType{
		events.EventBugReportSubmitted,
		events.EventBugReportStatusChanged,
		events.EventBugReportStatusChanged,
		events.EventBugReportDeleted,
	}, rec.types())
	assert.Equal(t, "admin@macwrite.ai", rec.events[3].Actor.Email)
}

type collidingRepo struct {
	repository.BugReportRepository
	failures int
	calls    int
}

func (r *collidingRepo) Create(ctx context.Context, report *domain.BugReport) error {
	r.calls++
	if r.calls <= r.failures {
		return repository.ErrDuplicateID
	}
	return r.BugReportRepository.Create(ctx, report)
}

func TestBugReportService_RetriesOnIDCollision(t *testing.T) {
	base := repository.NewFileBugReportRepository(filepath.Join(t.TempDir(), "bug-reports.json"), nil)
	repo := &collidingRepo{BugReportRepository: base, failures: 1}
	svc := NewBugReportService(BugReportDependencies{Repo: repo, Screenshots: storage.NewScreenshotStore(t.TempDir())})

	_, err := svc.Submit(context.Background(), BugReportSubmission{Title: "Broken layout"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	repo.failures, repo.calls = 10, 0
	_, err = svc.Submit(context.Background(), BugReportSubmission{Title: "Broken layout"})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)
	assert.Equal(t, maxIDAttempts, repo.calls)
}

func TestBugReportService_SubmittedAtIsFresh(t *testing.T) {
	svc, repo, _, _ := newBugReportService(t)
	before := time.Now().Add(-time.Millisecond)

	report, err := svc.Submit(context.Background(), BugReportSubmission{
		Title:       "Crash on save",
		Description: "App crashes when pressing Cmd+S",
	})
	require.NoError(t, err)
	assert.False(t, report.SubmittedAt.After(time.Now()))
	assert.True(t, report.SubmittedAt.After(before))

	stored, err := repo.List(context.Background(), repository.BugReportFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	assert.Equal(t, report.ID, stored[0].ID)
	assert.Equal(t, domain.BugReportStatusNew, stored[0].Status)
	assert.Empty(t, stored[0].ScreenshotPath)
}
