package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/mail"
)

// NotificationService turns account events into outgoing mail. Delivery is
// best effort: failures are logged, never surfaced to the request that
// triggered the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	frontend   config.FrontendConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, frontend config.FrontendConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		frontend:   frontend,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	link := n.ResetLink(payload.UserRef, payload.Token)
	body := "Click Following Link to Reset Your Password " + link

	if err := n.mailer.Send(payload.Email, "Reset Your Password", body); err != nil {
		n.logger.Error("reset email delivery failed",
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return err
	}

	n.logger.Info("reset email sent", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("user registered", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handlePasswordChanged(_ context.Context, event events.Event) error {
	n.logger.Info("password changed", zap.String("user_id", event.UserID))
	return nil
}

// ResetLink renders the frontend URL the reset email points at.
func (n *NotificationService) ResetLink(userRef, token string) string {
	base := strings.TrimRight(n.frontend.BaseURL, "/")
	return fmt.Sprintf("%s/reset-password/%s/%s/", base, userRef, token)
}
