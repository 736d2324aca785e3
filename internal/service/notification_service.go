package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/events"
)

// NotificationService emits best-effort notifications for scheduling events.
// Delivery failures never roll back the state transition that triggered them.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSwapRequested, n.handleSwapRequested)
	n.dispatcher.Subscribe(events.EventSwapApproved, n.handleSwapResolved)
	n.dispatcher.Subscribe(events.EventSwapRejected, n.handleSwapResolved)
	n.dispatcher.Subscribe(events.EventOverrideCreated, n.handleOverrideCreated)
	n.dispatcher.Subscribe(events.EventHorizonLow, n.handleHorizonLow)
}

func (n *NotificationService) handleSwapRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("SwapRequested", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSwapResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("SwapResolved", zap.String("event_type", string(event.Type)), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOverrideCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("OverrideCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleHorizonLow(ctx context.Context, event events.Event) error {
	n.logger.Warn("HorizonLow", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
