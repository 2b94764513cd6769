package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

var (
	_ usecase.EventPublisher = (*LogPublisher)(nil)
	_ usecase.EventPublisher = (*AMQPPublisher)(nil)
)

func sampleEvent() *domain.Event {
	at := time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)
	return domain.NewTransactionAddedEvent(domain.Transaction{
		ID:          1717408800000,
		Date:        at,
		Description: "Mercado",
		Category:    "Casa",
		Amount:      decimal.RequireFromString("87.35"),
		Type:        domain.Expense,
	}, at)
}

func TestEncode(t *testing.T) {
	body, err := Encode(sampleEvent())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var env struct {
		Type       string                       `json:"type"`
		OccurredAt string                       `json:"occurred_at"`
		Payload    domain.TransactionAddedEvent `json:"payload"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	if env.Type != domain.EventTypeTransactionAdded {
		t.Fatalf("unexpected type %q", env.Type)
	}
	if env.OccurredAt != "2024-06-03T10:00:00Z" {
		t.Fatalf("unexpected occurred_at %q", env.OccurredAt)
	}
	if env.Payload.Amount != "87.35" || env.Payload.Type != "saida" || env.Payload.Date != "2024-06-03T10:00:00.000Z" {
		t.Fatalf("unexpected payload %+v", env.Payload)
	}
}

func TestLogPublisherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"event_type":"transaction.added"`) || !strings.Contains(out, `"amount":"87.35"`) {
		t.Fatalf("unexpected log output %s", out)
	}
}

type stubChannel struct {
	published []amqp.Publishing
	exchanges []string
	keys      []string
	err       error
	closed    bool
}

func (c *stubChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.exchanges = append(c.exchanges, exchange)
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *stubChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisherRoutesByEventType(t *testing.T) {
	ch := &stubChannel{}
	p := newAMQPPublisher(ch, "caixa.events", zerolog.Nop())

	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected one message, got %d", len(ch.published))
	}
	if ch.exchanges[0] != "caixa.events" || ch.keys[0] != domain.EventTypeTransactionAdded {
		t.Fatalf("unexpected routing %s/%s", ch.exchanges[0], ch.keys[0])
	}

	msg := ch.published[0]
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected message properties %+v", msg)
	}
	if !json.Valid(msg.Body) {
		t.Fatalf("expected JSON body, got %s", msg.Body)
	}
}

func TestAMQPPublisherWrapsError(t *testing.T) {
	brokerErr := errors.New("channel closed")
	p := newAMQPPublisher(&stubChannel{err: brokerErr}, "caixa.events", zerolog.Nop())

	if err := p.Publish(context.Background(), sampleEvent()); !errors.Is(err, brokerErr) {
		t.Fatalf("expected broker error, got %v", err)
	}
}

func TestAMQPPublisherClose(t *testing.T) {
	ch := &stubChannel{}
	p := newAMQPPublisher(ch, "caixa.events", zerolog.Nop())

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !ch.closed {
		t.Fatal("expected channel to be closed")
	}
}
