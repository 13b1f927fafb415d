// Package amqp mirrors domain events through a RabbitMQ fanout exchange so
// every API instance can feed its own realtime hub.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"expensezen/internal/events"

	"github.com/rabbitmq/amqp091-go"
)

const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

var ErrCircuitOpen = errors.New("amqp: circuit breaker is open")

type Client struct {
	url          string
	exchangeName string
	instanceID   string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	failureCount int64
	state        int32
	lastFailure  time.Time
}

// NewClient connects and declares the exchange. instanceID tags published
// messages so a consumer can skip its own.
func NewClient(url, exchangeName, instanceID string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		instanceID:   instanceID,
	}
	if err := client.connect(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		c.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()
	return nil
}

func (c *Client) currentChannel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// Publish implements events.Publisher.
func (c *Client) Publish(ctx context.Context, event events.Event) error {
	if c.isCircuitOpen() {
		return ErrCircuitOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	channel := c.currentChannel()
	if channel == nil {
		c.recordFailure()
		return fmt.Errorf("publish event: no channel")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key, ignored by fanout
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			MessageId:   event.ID,
			Type:        string(event.Type),
			AppId:       c.instanceID,
			Timestamp:   event.OccurredAt,
			Body:        body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			go c.reconnect()
		}
		return fmt.Errorf("publish event: %w", err)
	}

	c.recordSuccess()
	return nil
}

// Consume binds an exclusive queue to the exchange and passes events from
// other instances to handler until ctx ends. Lost connections are retried
// with exponential backoff.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, events.Event) error) error {
	attempt := 0
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "amqp.consume: stream ended, reconnecting", "error", err, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		attempt++

		if err := c.connect(); err != nil {
			slog.ErrorContext(ctx, "amqp.consume: reconnect failed", "error", err)
			continue
		}
		attempt = 0
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(context.Context, events.Event) error) error {
	channel := c.currentChannel()
	if channel == nil {
		return fmt.Errorf("no channel")
	}

	queue, err := channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := channel.QueueBind(queue.Name, "", c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := channel.Consume(
		queue.Name, // queue
		"",         // consumer
		false,      // auto-ack
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "amqp.consume: started", "exchange", c.exchangeName, "queue", queue.Name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			switch c.handleDelivery(ctx, delivery.AppId, delivery.Body, handler) {
			case outcomeAck:
				_ = delivery.Ack(false)
			case outcomeReject:
				_ = delivery.Nack(false, false)
			}
		}
	}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeReject
)

func (c *Client) handleDelivery(ctx context.Context, appID string, body []byte, handler func(context.Context, events.Event) error) outcome {
	if appID != "" && appID == c.instanceID {
		return outcomeAck
	}

	var event events.Event
	if err := json.Unmarshal(body, &event); err != nil {
		slog.ErrorContext(ctx, "amqp.consume: decode event", "error", err)
		return outcomeReject
	}

	if err := handler(ctx, event); err != nil {
		slog.ErrorContext(ctx, "amqp.consume: handle event", "error", err, "event_id", event.ID, "type", event.Type)
		return outcomeReject
	}
	return outcomeAck
}

func (c *Client) reconnect() {
	c.mu.Lock()
	if c.channel != nil && !c.channel.IsClosed() {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.connect(); err != nil {
		slog.Error("amqp.publish: reconnect failed", "error", err)
	}
}

func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		c.mu.Lock()
		last := c.lastFailure
		c.mu.Unlock()
		if time.Since(last) > openTimeout {
			atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordFailure() {
	failures := atomic.AddInt64(&c.failureCount, 1)
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if failures >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	wait := time.Second << attempt
	if wait > maxBackoff {
		return maxBackoff
	}
	return wait
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection", "eof", "broken pipe", "closed network"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
