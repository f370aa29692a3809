package domain

const (
	NotificationOrderPlaced    = "ORDER_PLACED"
	NotificationPaymentSuccess = "PAYMENT_SUCCESS"
	NotificationPaymentFailed  = "PAYMENT_FAILED"
	NotificationOrderCancelled = "ORDER_CANCELLED"
)

// NotificationEvent is the outbound best-effort tuple handed to the
// notification collaborator. Delivery failures never affect order or
// payment correctness.
type NotificationEvent struct {
	RecipientUserID uint           `json:"recipientUserId"`
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Message         string         `json:"message"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

func OrderPlacedEvent(order *Order) NotificationEvent {
	return NotificationEvent{
		RecipientUserID: order.UserID,
		Type:            NotificationOrderPlaced,
		Title:           "Order Placed",
		Message:         "Your order " + order.OrderNumber + " has been placed successfully.",
		Metadata:        map[string]any{"orderId": order.ID, "orderNumber": order.OrderNumber},
	}
}

func PaymentSuccessEvent(order *Order) NotificationEvent {
	return NotificationEvent{
		RecipientUserID: order.UserID,
		Type:            NotificationPaymentSuccess,
		Title:           "Payment Successful",
		Message:         "Payment for order " + order.OrderNumber + " was successful.",
		Metadata:        map[string]any{"orderId": order.ID},
	}
}

func OrderCancelledEvent(order *Order) NotificationEvent {
	return NotificationEvent{
		RecipientUserID: order.UserID,
		Type:            NotificationOrderCancelled,
		Title:           "Order Cancelled",
		Message:         "Your order " + order.OrderNumber + " has been cancelled.",
		Metadata:        map[string]any{"orderId": order.ID},
	}
}
