package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
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
	n.dispatcher.Subscribe(events.EventEmployeeCreated, n.handleEmployeeCreated)
	n.dispatcher.Subscribe(events.EventEmployeeUpdated, n.handleEmployeeUpdated)
	n.dispatcher.Subscribe(events.EventEmployeeDeleted, n.handleEmployeeDeleted)
}

func (n *NotificationService) handleEmployeeCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeCreated", zap.Int64("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmployeeUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeUpdated", zap.Int64("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmployeeDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeDeleted", zap.Int64("employee_id", event.EmployeeID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// sendEmailNotificationStub welcomes a new employee at their address.
func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	payload, ok := event.Payload.(events.EmployeePayload)
	if !ok {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", payload.Email),
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}
