package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer listens to the purchase and comment queues and appends one line
// per event to a log file in LogDir: purchases.log and comments.log.
type Consumer struct {
	URL    string
	LogDir string
	Log    *zap.Logger
}

// Run connects to RabbitMQ, declares both queues (durable) and consumes
// until ctx is cancelled.  Broker failures trigger a reconnect with
// exponential backoff; a message that cannot be handled is rejected
// without requeue so the consumer keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("event consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("event consumer: consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("event consumer: set QoS failed", zap.Error(err))
	}

	type tagged struct {
		queue string
		msgs  <-chan amqp.Delivery
	}
	var streams []tagged
	for _, name := range []string{PurchaseQueue, CommentQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		streams = append(streams, tagged{queue: name, msgs: msgs})
	}

	purchases, comments := streams[0].msgs, streams[1].msgs
	for {
		var (
			d     amqp.Delivery
			ok    bool
			queue string
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-purchases:
			queue = PurchaseQueue
		case d, ok = <-comments:
			queue = CommentQueue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.HandleMessage(queue, d.Body); err != nil {
			c.Log.Error("event consumer: handle message failed", zap.String("queue", queue), zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

// HandleMessage decodes one delivery from queue and appends its log line.
func (c *Consumer) HandleMessage(queue string, body []byte) error {
	var (
		line string
		file string
	)
	switch queue {
	case PurchaseQueue:
		var ev PurchaseConfirmedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line, file = FormatPurchase(ev), "purchases.log"
	case CommentQueue:
		var ev CommentReceivedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line, file = FormatComment(ev), "comments.log"
	default:
		return fmt.Errorf("unknown queue %q", queue)
	}
	return appendLine(filepath.Join(c.LogDir, file), line)
}

// FormatPurchase renders a purchase event as a single log line.
func FormatPurchase(ev PurchaseConfirmedEvent) string {
	return fmt.Sprintf("[%s] Purchase confirmed | purchase_id=%d | concert_id=%d | artist=%q | venue=%q | payment=%q | total=%.2f | seats=[%s]\n",
		ev.ConfirmedAt, ev.PurchaseID, ev.ConcertID, ev.Artist, ev.Venue, ev.PaymentMethod, ev.Total, strings.Join(ev.Seats, ","))
}

// FormatComment renders a comment event as a single log line.
func FormatComment(ev CommentReceivedEvent) string {
	return fmt.Sprintf("[%s] Comment received | category=%q | name=%t | phone=%t | email=%t | pending=%d\n",
		ev.ReceivedAt, ev.Category, ev.HasName, ev.HasPhone, ev.HasEmail, ev.QueueLength)
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
