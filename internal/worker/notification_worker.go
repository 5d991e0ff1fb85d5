package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/service"
)

// StartNotificationWorker wires the notification handlers onto the event
// dispatcher. Delivery itself runs on the dispatcher's goroutines; there is
// no polling loop to manage.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification service unavailable; account emails disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
