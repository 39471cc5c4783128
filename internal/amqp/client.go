// Package amqp connects the report worker to its collaborators: it
// consumes on-demand report requests and publishes run-completed events.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Queue and routing-key suffixes hung off the configured queue name.
const generatedSuffix = ".generated"

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	requestQueue string
}

func NewClient(url, exchangeName, requestQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		requestQueue: requestQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(
		c.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.requestQueue, c.requestQueue + generatedSuffix} {
		if _, err := c.channel.QueueDeclare(
			queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishReportGenerated announces a completed run on the generated
// events queue.
func (c *Client) PublishReportGenerated(ctx context.Context, msg *ReportGeneratedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.requestQueue+generatedSuffix,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published report generated event",
		"component", "amqp",
		"run_id", msg.RunID,
		"txn_count", msg.TxnCount,
		"exchange", c.exchangeName)
	return nil
}

// ConsumeRequests delivers report request messages to the handler until
// the context ends. Malformed messages are rejected without requeue;
// handler failures requeue the delivery for a later attempt.
func (c *Client) ConsumeRequests(ctx context.Context, handler func(context.Context, *ReportRequestMessage) error) error {
	msgs, err := c.channel.Consume(
		c.requestQueue,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming report requests",
		"component", "amqp",
		"queue", c.requestQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping request consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := ReportRequestMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal report request", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle report request",
					"error", err,
					"start_date", msg.StartDate,
					"end_date", msg.EndDate)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ConsumeRequestsWithRetry keeps a request consumer alive across broker
// restarts, redialing with exponential backoff when the connection
// drops. Non-connection errors and context cancellation end the loop.
func ConsumeRequestsWithRetry(ctx context.Context, url, exchangeName, requestQueue string, handler func(context.Context, *ReportRequestMessage) error) error {
	attempt := 0
	for {
		client, err := NewClient(url, exchangeName, requestQueue)
		if err != nil {
			if !isConnectionError(err) {
				return err
			}
			wait := exponentialBackoff(attempt)
			attempt++
			slog.WarnContext(ctx, "Broker unreachable, retrying",
				"component", "amqp",
				"wait", wait,
				"error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		attempt = 0
		err = client.ConsumeRequests(ctx, handler)
		client.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}
	}
}

// exponentialBackoff returns the wait before reconnect attempt n, capped
// at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << uint(attempt)
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether the error looks like a broken broker
// connection worth a reconnect rather than a permanent failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection closed", "connection reset", "eof", "broken pipe"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
