package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/config"
	"github.com/billboardhub/billboard-market/internal/events"
)

// NotificationService turns order and quote events into notifications.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// Notify routes one event to the channels that care about it.
func (n *NotificationService) Notify(ctx context.Context, event events.Event) error {
	n.logger.Info("notify",
		zap.String("event_type", string(event.Type)),
		zap.String("order_id", event.OrderID),
		zap.Any("payload", event.Payload))

	switch event.Type {
	case events.EventOrderPlaced:
		n.sendEmailNotificationStub(ctx, event)
		n.sendWebhookNotificationStub(ctx, event)
	case events.EventQuoteCreated, events.EventQuoteUpdated:
		// the customer learns about the price by email
		n.sendEmailNotificationStub(ctx, event)
	case events.EventOrderStatusChanged:
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("order_id", event.OrderID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("order_id", event.OrderID),
		zap.String("event_type", string(event.Type)))
}
