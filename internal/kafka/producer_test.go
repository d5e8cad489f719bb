package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-pos-core/internal/event"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestPublishFlushesOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 8, nil)
	ctx, cancel := context.WithCancel(context.Background())

	e, err := event.New(event.SaleCommitted, "42", event.SalePayload{SaleID: 42}, time.Now())
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), e))

	p.Start(ctx)
	cancel()
	p.WaitClosed()

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.msgs, 1)
	assert.True(t, w.closed)
	assert.Equal(t, []byte("42"), w.msgs[0].Key)
	assert.Equal(t, "sale.committed", string(w.msgs[0].Headers[0].Value))

	var got event.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, e.ID, got.ID)
}

func TestPublishAfterCloseFails(t *testing.T) {
	p := newProducer(&fakeWriter{}, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	p.WaitClosed()

	assert.ErrorIs(t, p.Publish(context.Background(), event.Event{}), ErrProducerClosed)
}
