// Package messaging publishes member lifecycle events to RabbitMQ for the
// downstream welfare-center consumers.
package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/hanbit-center/attendance-service/internal/config"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

// RabbitMQBroker publishes member-approved events to a durable queue. The
// queue is declared on connect so the relay can start before any consumer.
type RabbitMQBroker struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	cb    *gobreaker.CircuitBreaker
}

var _ ports.MemberEventPublisher = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(amqpURL, queue string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	// durable, survives broker restart; declaration is idempotent
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &RabbitMQBroker{
		conn:  conn,
		ch:    ch,
		queue: queue,
		cb:    config.NewCircuitBreaker("RabbitMQ-Publisher"),
	}, nil
}

// PublishMemberApproved sends the event as a persistent JSON message on the
// default exchange, routed straight to the member queue.
func (b *RabbitMQBroker) PublishMemberApproved(ctx context.Context, evt ports.MemberApprovedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = b.cb.Execute(func() (interface{}, error) {
		return nil, b.ch.PublishWithContext(ctx, "", b.queue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	})
	return err
}

func (b *RabbitMQBroker) Close() error {
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			return err
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
