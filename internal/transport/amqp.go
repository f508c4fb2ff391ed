package transport

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPProvider implements Provider against a RabbitMQ broker. Queues are
// declared durable on first use so messages survive broker restarts.
type AMQPProvider struct {
	conn    *amqp.Connection
	channel *amqp.Channel

	mu       sync.Mutex
	declared map[string]struct{}
}

// NewAMQPProvider dials the broker and opens a channel.
func NewAMQPProvider(url string) (*AMQPProvider, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp broker: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		closeErr := conn.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("open amqp channel: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	return &AMQPProvider{
		conn:     conn,
		channel:  channel,
		declared: make(map[string]struct{}),
	}, nil
}

// Publish declares the queue (once per name) and enqueues the body on the
// default exchange. A durable publish uses persistent delivery mode.
func (p *AMQPProvider) Publish(ctx context.Context, queue string, body []byte, durable bool) error {
	if err := p.ensureQueue(queue, durable); err != nil {
		return err
	}

	deliveryMode := amqp.Transient
	if durable {
		deliveryMode = amqp.Persistent
	}
	err := p.channel.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: deliveryMode,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %q: %w", queue, err)
	}
	return nil
}

func (p *AMQPProvider) ensureQueue(queue string, durable bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.declared[queue]; ok {
		return nil
	}
	_, err := p.channel.QueueDeclare(queue, durable, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %q: %w", queue, err)
	}
	p.declared[queue] = struct{}{}
	return nil
}

// Close shuts down the channel and the connection.
func (p *AMQPProvider) Close() error {
	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("close amqp channel: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close amqp connection: %w", err)
	}
	return nil
}
