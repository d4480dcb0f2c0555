package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-desk/internal/config"
	"github.com/spec-kit/feedback-desk/internal/events"
)

type sentMail struct{ to, subject, body string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

type fakePublisher struct {
	channels []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestNotificationService_SubmissionsEmailAndPublish(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)
	mailer := &fakeMailer{}
	pub := &fakePublisher{}
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher: d,
		Config:     config.NotificationConfig{AdminEmail: "triage@macwrite.ai"},
		Mailer:     mailer,
		Publisher:  pub,
		Channel:    "feedback-desk:events",
	})
	svc.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, events.Event{
		Type:      events.EventBugReportSubmitted,
		RecordID:  "bug-1",
		Timestamp: time.Now(),
		Payload:   events.BugReportSubmittedPayload{Title: "Crash on save"},
	}))
	require.NoError(t, d.Publish(ctx, events.Event{
		Type:     events.EventFeedbackSubmitted,
		RecordID: "feedback-1",
		Payload:  events.FeedbackSubmittedPayload{Name: "Ada", Rating: 4},
	}))
	require.NoError(t, d.Publish(ctx, events.Event{
		Type:     events.EventFeedbackDeleted,
		RecordID: "feedback-1",
	}))

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "triage@macwrite.ai", mailer.sent[0].to)
	assert.Equal(t, "New bug report: Crash on save", mailer.sent[0].subject)
	assert.Equal(t, "New 4-star feedback from Ada", mailer.sent[1].subject)

	require.Len(t, pub.payloads, 3)
	assert.Equal(t, "feedback-desk:events", pub.channels[0])
	var decoded events.Event
	require.NoError(t, json.Unmarshal(pub.payloads[2], &decoded))
	assert.Equal(t, events.EventFeedbackDeleted, decoded.Type)
	assert.Equal(t, "feedback-1", decoded.RecordID)
}

func TestNotificationService_MailFailureStillPublishes(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	pub := &fakePublisher{}
	svc := NewNotificationService(NotificationDependencies{
		Config:    config.NotificationConfig{AdminEmail: "triage@macwrite.ai"},
		Mailer:    mailer,
		Publisher: pub,
		Channel:   "events",
	})

	err := svc.handleBugReportSubmitted(context.Background(), events.Event{Type: events.EventBugReportSubmitted, RecordID: "bug-1"})
	assert.Error(t, err)
	assert.Len(t, pub.payloads, 1)
}

func TestNotificationService_DisabledChannels(t *testing.T) {
	svc := NewNotificationService(NotificationDependencies{})
	svc.RegisterHandlers()
	assert.NoError(t, svc.handleFeedbackSubmitted(context.Background(), events.Event{Type: events.EventFeedbackSubmitted}))
	assert.Nil(t, NewSMTPMailer(config.NotificationConfig{}))
}
