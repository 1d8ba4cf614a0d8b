package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "order.events"
	DefaultQueue    = "order.notifications.q"
)

// EnsureTopology declares the durable exchange/queue pair and binds both
// routing keys. Declares are idempotent, so the publisher and the notifier
// both call this at startup.
func EnsureTopology(ch *amqp.Channel, exchange, queueName string) error {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{usecase.RoutingKeyOrderCreated, usecase.RoutingKeyStatusChanged} {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// RabbitPublisher implements usecase.EventPublisher on a single AMQP
// channel. Delivery is best-effort; callers log failures and move on.
type RabbitPublisher struct {
	ch       *amqp.Channel
	exchange string
}

func NewRabbitPublisher(ch *amqp.Channel, exchange, queueName string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if queueName == "" {
		queueName = DefaultQueue
	}
	if err := EnsureTopology(ch, exchange, queueName); err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) PublishOrderCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return p.publish(ctx, usecase.RoutingKeyOrderCreated, msg)
}

func (p *RabbitPublisher) PublishStatusChanged(ctx context.Context, msg usecase.OrderStatusChangedMsg) error {
	return p.publish(ctx, usecase.RoutingKeyStatusChanged, msg)
}

func (p *RabbitPublisher) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

var _ usecase.EventPublisher = (*RabbitPublisher)(nil)
