package services

import (
	"strings"

	"marketplace/internal/domain"
)

// notificationPattern maps an event to its topic routing key, e.g.
// ORDER_PLACED -> notification.order_placed.
func notificationPattern(evt domain.NotificationEvent) string {
	return "notification." + strings.ToLower(evt.Type)
}
