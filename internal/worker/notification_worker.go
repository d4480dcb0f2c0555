package worker

import (
	"github.com/spec-kit/feedback-desk/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher
// the services publish to.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
