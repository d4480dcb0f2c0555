package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/events"
)

const (
	bugReportIDPrefix = "bug"
	feedbackIDPrefix  = "feedback"
	idSuffixLength    = 9
	maxIDAttempts     = 3
)

// newRecordID builds "<prefix>-<unix millis>-<9 random chars>".
func newRecordID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix)
}

func newEvent(eventType events.EventType, recordID string, actor *domain.AdminUser, now time.Time, payload any) events.Event {
	evt := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RecordID:  recordID,
		Timestamp: now.UTC(),
		Payload:   payload,
	}
	if actor != nil {
		evt.Actor = events.Actor{Role: actor.Role, Email: actor.Email}
	}
	return evt
}
