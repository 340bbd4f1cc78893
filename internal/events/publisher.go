// Package events implements the Finalization Publisher: the one-way
// hand-off from a completed match to the out-of-scope rankings/profile
// projector.
package events

import (
	"context"

	"github.com/duelcore/matchcore/pkg/events/rabbitmq"
	"github.com/duelcore/matchcore/pkg/logging"
)

const routingKey = "match.finalized"

// SideOutcome is one participant's half of a finalized match.
type SideOutcome struct {
	Handle       string `json:"handle"`
	Character    string `json:"character"`
	RatingBefore int    `json:"ratingBefore"`
	RatingAfter  int    `json:"ratingAfter"`
	Delta        int    `json:"delta"`
}

// MatchFinalized is the event published on every successful confirm that
// moves a match to COMPLETED.
type MatchFinalized struct {
	MatchID string      `json:"matchId"`
	Winner  string      `json:"winner"`
	Side1   SideOutcome `json:"side1"`
	Side2   SideOutcome `json:"side2"`
}

// Publisher publishes finalization events. A publish failure is logged and
// never propagated: by the time a Publish call is made, the rating
// transaction has already committed and the confirm request must succeed.
type Publisher struct {
	publisher    *rabbitmq.Publisher
	exchangeName string
	logger       logging.Logger
}

// NewPublisher builds a Finalization Publisher over an already-connected
// RabbitMQ client and a pre-declared topic exchange.
func NewPublisher(client *rabbitmq.Client, exchangeName string, logger logging.Logger) *Publisher {
	return &Publisher{
		publisher:    rabbitmq.NewPublisher(client, nil),
		exchangeName: exchangeName,
		logger:       logger,
	}
}

// Publish best-effort publishes a MatchFinalized event. Errors are logged,
// never returned.
func (p *Publisher) Publish(event MatchFinalized) {
	err := p.publisher.PublishEvent(context.Background(), p.exchangeName, routingKey, event.MatchID, event)
	if err != nil {
		p.logger.Error("failed to publish match finalized event",
			logging.String("matchId", event.MatchID), logging.Error(err))
	}
}
