package worker

import (
	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/service"
)

// StartNotificationWorker subscribes the notification service to booking,
// review and phone session events so codes reach the SMS sender.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification worker disabled; one-time codes will not be delivered")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
