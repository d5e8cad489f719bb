package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	e, err := New(StockAdjusted, "7", StockPayload{ProductID: 7, Delta: 5, StockAfter: 12}, at)
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.JSONEq(t, `{"product_id":7,"delta":5,"stock_after":12}`, string(e.Payload))
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	var got []string
	boom := errors.New("boom")
	m := Multi{
		PublisherFunc(func(_ context.Context, e Event) error { got = append(got, "a"); return boom }),
		nil,
		PublisherFunc(func(_ context.Context, e Event) error { got = append(got, "b"); return nil }),
	}

	err := m.Publish(context.Background(), Event{Type: SaleCommitted})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.NoError(t, Nop.Publish(context.Background(), Event{}))
}
