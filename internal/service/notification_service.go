package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/events"
)

// SMSSender delivers text messages to a phone. Delivery providers live
// outside this service.
type SMSSender interface {
	Send(ctx context.Context, to domain.Phone, body string) error
}

// LogSMSSender records outgoing messages without their body.
type LogSMSSender struct {
	Logger   *zap.Logger
	SenderID string
}

// Send logs the destination and message size.
func (l LogSMSSender) Send(_ context.Context, to domain.Phone, body string) error {
	l.Logger.Info("sms dispatched",
		zap.String("sender_id", l.SenderID),
		zap.String("to", to.E164()),
		zap.Int("length", len(body)))
	return nil
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	sms        SMSSender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. A nil sender falls back to LogSMSSender.
func NewNotificationService(dispatcher events.Dispatcher, sms SMSSender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sms == nil {
		sms = LogSMSSender{Logger: logger, SenderID: cfg.SMSSenderID}
	}
	return &NotificationService{
		dispatcher: dispatcher,
		sms:        sms,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPhoneSessionIssued, n.handlePhoneSessionIssued)
	n.dispatcher.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
	n.dispatcher.Subscribe(events.EventBookingStatusChanged, n.handleBookingStatusChanged)
	n.dispatcher.Subscribe(events.EventReviewSubmitted, n.handleReviewSubmitted)
}

func (n *NotificationService) handlePhoneSessionIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PhoneSessionIssuedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	body := fmt.Sprintf("Your %s verification code is %s", n.cfg.SMSSenderID, payload.OTP)
	return n.sms.Send(ctx, payload.Phone, body)
}

func (n *NotificationService) handleBookingCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("BookingCreated", zap.String("booking_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBookingStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("BookingStatusChanged", zap.String("booking_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReviewSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ReviewSubmitted", zap.String("review_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
