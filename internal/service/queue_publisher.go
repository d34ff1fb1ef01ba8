// Package service holds the operations that change documents: purchases
// and feedback intake, plus the broker publisher they report to.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventPublisher sends domain events.  Failures are for logging only; a
// request never fails because an event could not be delivered.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, event any) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// AMQPPublisher publishes events to RabbitMQ on the default exchange with
// the queue name as routing key.  Each call dials its own connection, so
// a broker outage never leaves a broken channel behind.
type AMQPPublisher struct {
	URL string
	Log *zap.Logger
}

// Publish declares queue (durable, idempotent) and sends event as a
// persistent JSON message.  Any error is logged and returned.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event any) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.String("queue", queue), zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.Log.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.String("queue", queue), zap.Error(err))
		return err
	}
	return nil
}

// publishAsync hands event to pub on its own goroutine with a short
// deadline, detached from the request that produced it.
func publishAsync(pub EventPublisher, log *zap.Logger, queue string, event any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pub.Publish(ctx, queue, event); err != nil {
			log.Debug("event not delivered", zap.String("queue", queue), zap.Error(err))
		}
	}()
}
