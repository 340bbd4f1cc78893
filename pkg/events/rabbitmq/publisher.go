package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher ships a single finalized-match event type to a topic exchange,
// fire-and-forget: it never declares a queue or waits for a consumer.
// Every message is persistent and JSON-encoded — the finalization exchange
// has no other kind of event to carry.
type Publisher struct {
	client *Client
	logger *zap.Logger
}

// NewPublisher builds a publisher over an already-connected client.
func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishEvent JSON-encodes payload and publishes it to exchange under
// routingKey, stamping messageID for the consumer's dedup/tracing use.
func (p *Publisher) PublishEvent(ctx context.Context, exchange, routingKey, messageID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now(),
		Body:         body,
	}

	err = p.client.channel.PublishWithContext(
		ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("exchange", exchange),
		zap.String("routing_key", routingKey),
		zap.String("message_id", messageID),
		zap.Int("body_size", len(body)),
	)

	return nil
}
