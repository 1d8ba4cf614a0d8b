package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Sender delivers a rendered notification. The log sender below stands in
// for a real mail transport.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type LogSender struct {
	Log *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.Log.Info("notification sent", "to", to, "subject", subject)
	return nil
}

// EventHandler consumes the order events queue. Both event kinds arrive on
// the same queue; the routing key tells them apart. Delivery is
// at-least-once and unordered, so handling is idempotent per event payload
// and never assumes the created event arrived before a status change.
type EventHandler struct {
	sender Sender
	log    *slog.Logger
}

func NewEventHandler(sender Sender, log *slog.Logger) *EventHandler {
	return &EventHandler{sender: sender, log: log}
}

func (h *EventHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	switch d.RoutingKey {
	case usecase.RoutingKeyOrderCreated:
		var msg usecase.OrderCreatedMsg
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			h.log.Warn("dropping malformed order.created event", "error", err)
			return nil
		}
		return h.handleOrderCreated(ctx, msg)
	case usecase.RoutingKeyStatusChanged:
		var msg usecase.OrderStatusChangedMsg
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			h.log.Warn("dropping malformed order.status_changed event", "error", err)
			return nil
		}
		return h.handleStatusChanged(ctx, msg)
	default:
		// Unknown kinds are skipped, not failed; the exchange may grow
		// event types faster than this consumer.
		h.log.Info("skipping unknown event kind", "routing_key", d.RoutingKey)
		return nil
	}
}

func (h *EventHandler) handleOrderCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	if msg.Email == "" {
		h.log.Warn("order.created event without recipient", "order_id", msg.OrderID)
		return nil
	}
	return h.sender.Send(ctx, msg.Email, "Thanks for your order", BuildOrderCreatedBody(msg))
}

func (h *EventHandler) handleStatusChanged(ctx context.Context, msg usecase.OrderStatusChangedMsg) error {
	if msg.Email == "" {
		h.log.Warn("order.status_changed event without recipient", "order_id", msg.OrderID)
		return nil
	}
	subject, body := StatusTemplate(msg)
	return h.sender.Send(ctx, msg.Email, subject, body)
}
