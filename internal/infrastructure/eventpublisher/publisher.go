package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/caixa/internal/domain"
)

// Envelope is the serialized form of a domain event.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Encode serializes an event into its envelope.
func Encode(event *domain.Event) ([]byte, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Type:       event.Type,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
		Payload:    payload,
	})
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_type", event.Type).
		Time("occurred_at", event.OccurredAt).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
