package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

func newTestStore(t *testing.T) *JSONStore[domain.BugReport] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "bug-reports.json")
	return NewJSONStore[domain.BugReport](path, nil)
}

func sampleReport(id, title string, status domain.BugReportStatus) domain.BugReport {
	return domain.BugReport{
		ID:          id,
		Title:       title,
		Description: "details for " + title,
		SubmittedAt: domain.NewTimestamp(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)),
		Status:      status,
	}
}

func TestJSONStore_MissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	records := store.ReadAll(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, err := os.Stat(filepath.Dir(store.Path()))
	assert.True(t, os.IsNotExist(err), "directory must only be created on write")
}

func TestJSONStore_CorruptFileIsEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	assert.Empty(t, store.ReadAll(context.Background()))
}

func TestJSONStore_AppendPrependsAndCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Append(ctx, sampleReport("bug-1", "First report", domain.BugReportStatusNew)))
	require.NoError(t, store.Append(ctx, sampleReport("bug-2", "Second report", domain.BugReportStatusNew)))

	records := store.ReadAll(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "bug-2", records[0].ID)
	assert.Equal(t, "bug-1", records[1].ID)
}

func TestJSONStore_AppendRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Append(ctx, sampleReport("bug-1", "First report", domain.BugReportStatusNew)))
	err := store.Append(ctx, sampleReport("bug-1", "Other report", domain.BugReportStatusNew))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, store.ReadAll(ctx), 1)
}

func TestJSONStore_WriteReadRoundTripIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	report := sampleReport("bug-1", "Crash <on> save & quit", domain.BugReportStatusResolved)
	report.ScreenshotPath = "/bug-reports/bug-1.png"
	require.NoError(t, store.Append(ctx, report))
	require.NoError(t, store.Append(ctx, sampleReport("bug-2", "Another one", domain.BugReportStatusNew)))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	require.NoError(t, store.WriteAll(ctx, store.ReadAll(ctx)))

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Contains(t, string(after), "\n  {\n    \"id\": \"bug-2\"")
	assert.Contains(t, string(after), "Crash <on> save & quit")
}

func TestJSONStore_UpdateUnknownLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Append(ctx, sampleReport("bug-1", "First report", domain.BugReportStatusNew)))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	_, err = store.Update(ctx, "bug-missing", func(r *domain.BugReport) { r.Status = domain.BugReportStatusClosed })
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestJSONStore_UpdateChangesOnlyTarget(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Append(ctx, sampleReport("bug-1", "First report", domain.BugReportStatusNew)))
	require.NoError(t, store.Append(ctx, sampleReport("bug-2", "Second report", domain.BugReportStatusNew)))

	updated, err := store.Update(ctx, "bug-1", func(r *domain.BugReport) { r.Status = domain.BugReportStatusInProgress })
	require.NoError(t, err)
	assert.Equal(t, domain.BugReportStatusInProgress, updated.Status)
	assert.Equal(t, "First report", updated.Title)

	records := store.ReadAll(ctx)
	assert.Equal(t, domain.BugReportStatusNew, records[0].Status)
	assert.Equal(t, domain.BugReportStatusInProgress, records[1].Status)
}

func TestJSONStore_DeleteReturnsRemoved(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Append(ctx, sampleReport("bug-1", "First report", domain.BugReportStatusNew)))
	require.NoError(t, store.Append(ctx, sampleReport("bug-2", "Second report", domain.BugReportStatusNew)))

	removed, err := store.Delete(ctx, "bug-1")
	require.NoError(t, err)
	assert.Equal(t, "First report", removed.Title)

	records := store.ReadAll(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, "bug-2", records[0].ID)

	_, err = store.Delete(ctx, "bug-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "bug-" + time.Now().Format("150405.000000000") + "-" + string(rune('a'+i))
			assert.NoError(t, store.Append(ctx, sampleReport(id, "Concurrent report", domain.BugReportStatusNew)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.ReadAll(ctx), writers)
}

func TestJSONStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newTestStore(t)

	err := store.Append(ctx, sampleReport("bug-1", "First report", domain.BugReportStatusNew))
	assert.ErrorIs(t, err, context.Canceled)
}
