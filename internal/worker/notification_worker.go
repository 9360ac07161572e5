package worker

import (
	"github.com/spec-kit/employee-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to employee
// lifecycle events. Handlers run synchronously on the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
