package notify

import (
	"fmt"
	"strings"

	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
)

// StatusTemplate maps an order status to a notification subject/body pair.
// Unknown statuses fall through to a generic update message so a consumer
// running behind the producer never fails on a new status value.
func StatusTemplate(msg usecase.OrderStatusChangedMsg) (subject, body string) {
	switch msg.NewStatus {
	case "CONFIRMED":
		subject = "Your order has been confirmed"
		body = fmt.Sprintf("Hi %s,\n\nOrder %s is confirmed and the items have been set aside for you.", msg.FullName, msg.OrderID)
	case "PROCESSING":
		subject = "Your order is being prepared"
		body = fmt.Sprintf("Hi %s,\n\nOrder %s is being prepared for shipment.", msg.FullName, msg.OrderID)
	case "SHIPPED":
		subject = "Your order is on its way"
		body = fmt.Sprintf("Hi %s,\n\nOrder %s has been handed to the carrier.", msg.FullName, msg.OrderID)
	case "DELIVERED":
		subject = "Your order has been delivered"
		body = fmt.Sprintf("Hi %s,\n\nOrder %s was delivered. Enjoy!", msg.FullName, msg.OrderID)
	case "CANCELLED":
		subject = "Your order has been cancelled"
		body = fmt.Sprintf("Hi %s,\n\nOrder %s was cancelled. Any reserved stock has been released.", msg.FullName, msg.OrderID)
	default:
		subject = "Your order has been updated"
		body = fmt.Sprintf("Hi %s,\n\nOrder %s moved from %s to %s.", msg.FullName, msg.OrderID, msg.OldStatus, msg.NewStatus)
	}
	return subject, body
}

// BuildOrderCreatedBody renders the order confirmation with the full item
// list carried in the event; no lookups needed.
func BuildOrderCreatedBody(msg usecase.OrderCreatedMsg) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order!\n\nOrder: %s\n", msg.FullName, msg.OrderID)
	fmt.Fprintf(&b, "Shipping to: %s, %s, %s\n\nItems:\n", msg.ShippingAddress, msg.City, msg.ZipCode)
	for _, it := range msg.Items {
		fmt.Fprintf(&b, "  %s x%d @ %s = %s\n", it.ProductName, it.Quantity, it.Price, it.Subtotal)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", msg.TotalAmount)
	return b.String()
}
