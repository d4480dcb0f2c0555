package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []string
	d.Subscribe(EventBugReportSubmitted, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.RecordID)
		return errors.New("boom")
	})
	d.Subscribe(EventBugReportSubmitted, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.RecordID)
		return nil
	})
	d.Subscribe(EventFeedbackDeleted, func(_ context.Context, e Event) error {
		got = append(got, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBugReportSubmitted, RecordID: "bug-1"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first:bug-1", "second:bug-1"}, got)
}

func TestInMemoryDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventFeedbackSubmitted}))
}
