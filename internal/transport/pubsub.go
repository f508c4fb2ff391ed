package transport

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// PubSubProvider implements Provider for Google Cloud Pub/Sub. The queue
// name is ignored; messages go to the configured topic. Pub/Sub storage is
// always durable, so the durable flag is advisory here.
type PubSubProvider struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubProvider creates a Pub/Sub client and verifies the topic exists.
// It authenticates using Application Default Credentials.
func NewPubSubProvider(ctx context.Context, projectID, topicID string) (*PubSubProvider, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		closeErr := client.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("check pubsub topic %q: %w (close: %v)", topicID, err, closeErr)
		}
		return nil, fmt.Errorf("check pubsub topic %q: %w", topicID, err)
	}
	if !exists {
		_ = client.Close()
		return nil, fmt.Errorf("pubsub topic %q does not exist in project %q", topicID, projectID)
	}

	return &PubSubProvider{client: client, topic: topic}, nil
}

// Publish sends the body to the topic. The send is asynchronous and
// fire-and-forget; the client batches and retries in the background.
func (p *PubSubProvider) Publish(ctx context.Context, queue string, body []byte, _ bool) error {
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       body,
		Attributes: map[string]string{"queue": queue},
	})
	_ = result // fire-and-forget; no delivery confirmation is surfaced
	return nil
}

// Close stops the topic's publish goroutines and closes the client.
func (p *PubSubProvider) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
