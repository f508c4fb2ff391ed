// Package transport defines the interface for the message queue the
// pipeline publishes envelopes into. This abstraction keeps the pipeline
// independent of a specific broker (RabbitMQ in production, GCP Pub/Sub as
// an alternative, in-memory for tests).
package transport

import "context"

// Provider is the queue transport contract: fire-and-forget publish with a
// durability request. No delivery confirmation is surfaced to the pipeline;
// downstream consumers are responsible for idempotent handling of duplicate
// envelopes from re-run adapters.
type Provider interface {
	// Publish enqueues one message body on the named queue. When durable is
	// true the message must survive a broker restart.
	Publish(ctx context.Context, queue string, body []byte, durable bool) error

	// Close releases the broker connection.
	Close() error
}

// NoOpProvider is a transport that discards every message. It is useful for
// running the scrapers without a broker.
type NoOpProvider struct{}

// Publish discards the message.
func (NoOpProvider) Publish(context.Context, string, []byte, bool) error { return nil }

// Close does nothing.
func (NoOpProvider) Close() error { return nil }
