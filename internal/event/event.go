// Package event carries notifications about committed changes to interested sinks.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type Type string

const (
	SaleCommitted  Type = "sale.committed"
	SaleReversed   Type = "sale.reversed"
	StockAdjusted  Type = "stock.adjusted"
	ProductChanged Type = "product.changed"
)

// Event is the envelope every sink receives. Key groups events that must stay ordered.
type Event struct {
	ID         string          `json:"event_id"`
	Type       Type            `json:"event_type"`
	Version    int             `json:"event_version"`
	OccurredAt time.Time       `json:"occurred_at"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload"`
}

func New(t Type, key string, payload any, at time.Time) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Version:    1,
		OccurredAt: at.UTC(),
		Key:        key,
		Payload:    b,
	}, nil
}

// Publisher delivers events after the change they describe has committed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var err error
	for _, p := range m {
		if p == nil {
			continue
		}
		err = multierr.Append(err, p.Publish(ctx, e))
	}
	return err
}

type nop struct{}

func (nop) Publish(context.Context, Event) error { return nil }

// Nop discards events.
var Nop Publisher = nop{}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }
