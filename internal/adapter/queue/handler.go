package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a single delivery. It should be idempotent: the broker
// redelivers on requeue, so at-least-once is the contract.
// Return nil => ACK; return error => NACK (requeue behavior set on Router).
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}
