package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-desk/internal/config"
	"github.com/spec-kit/feedback-desk/internal/events"
)

// Mailer delivers a plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher fans serialized events out to other processes.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	mailer     Mailer
	publisher  EventPublisher
	channel    string
}

// NotificationDependencies wires the optional delivery channels. Nil Mailer
// or Publisher disables that channel.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Config     config.NotificationConfig
	Mailer     Mailer
	Publisher  EventPublisher
	Channel    string
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		logger:     logger,
		cfg:        deps.Config,
		mailer:     deps.Mailer,
		publisher:  deps.Publisher,
		channel:    deps.Channel,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBugReportSubmitted, n.handleBugReportSubmitted)
	n.dispatcher.Subscribe(events.EventFeedbackSubmitted, n.handleFeedbackSubmitted)
	for _, t := range []events.EventType{
		events.EventBugReportStatusChanged,
		events.EventBugReportDeleted,
		events.EventFeedbackStatusChanged,
		events.EventFeedbackDeleted,
	} {
		n.dispatcher.Subscribe(t, n.handleTriage)
	}
}

func (n *NotificationService) handleBugReportSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("BugReportSubmitted", zap.String("record_id", event.RecordID), zap.Any("payload", event.Payload))
	subject := fmt.Sprintf("New bug report %s", event.RecordID)
	if p, ok := event.Payload.(events.BugReportSubmittedPayload); ok {
		subject = fmt.Sprintf("New bug report: %s", p.Title)
	}
	return n.deliver(ctx, event, subject)
}

func (n *NotificationService) handleFeedbackSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("FeedbackSubmitted", zap.String("record_id", event.RecordID), zap.Any("payload", event.Payload))
	subject := fmt.Sprintf("New feedback %s", event.RecordID)
	if p, ok := event.Payload.(events.FeedbackSubmittedPayload); ok {
		subject = fmt.Sprintf("New %d-star feedback from %s", p.Rating, p.Name)
	}
	return n.deliver(ctx, event, subject)
}

func (n *NotificationService) handleTriage(ctx context.Context, event events.Event) error {
	n.logger.Info("RecordTriaged",
		zap.String("event_type", string(event.Type)),
		zap.String("record_id", event.RecordID),
		zap.String("actor", event.Actor.Email),
		zap.Any("payload", event.Payload))
	return n.publish(ctx, event)
}

// deliver emails the admin and fans the event out; both are attempted even
// if one fails.
func (n *NotificationService) deliver(ctx context.Context, event events.Event, subject string) error {
	mailErr := n.sendEmail(ctx, event, subject)
	pubErr := n.publish(ctx, event)
	if mailErr != nil {
		return mailErr
	}
	return pubErr
}

func (n *NotificationService) sendEmail(ctx context.Context, event events.Event, subject string) error {
	to := strings.TrimSpace(n.cfg.AdminEmail)
	if n.mailer == nil || to == "" {
		return nil
	}
	body, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, to, subject, string(body)); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	n.logger.Debug("notification email sent", zap.String("to", to), zap.String("event_type", string(event.Type)))
	return nil
}

func (n *NotificationService) publish(ctx context.Context, event events.Event) error {
	if n.publisher == nil || n.channel == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, n.channel, payload); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
