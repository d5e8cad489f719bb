package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-pos-core/internal/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishQueuesEnvelope(t *testing.T) {
	h := NewHub(nil)
	e, err := event.New(event.SaleCommitted, "1", event.SalePayload{SaleID: 1}, time.Now())
	require.NoError(t, err)

	require.NoError(t, h.Publish(context.Background(), e))

	var got event.Event
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, event.SaleCommitted, got.Type)
}

func TestPublishHonorsContextWhenFull(t *testing.T) {
	h := NewHub(nil)
	for i := 0; i < cap(h.Broadcast); i++ {
		h.Broadcast <- []byte("x")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.Publish(ctx, event.Event{}), context.Canceled)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { h.Run(ctx); close(done) }()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestPublishAfterStopFailsFast(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { h.Run(ctx); close(done) }()
	cancel()
	<-done

	pubCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
	defer stop()
	start := time.Now()
	for i := 0; i < cap(h.Broadcast)+5; i++ {
		assert.ErrorIs(t, h.Publish(pubCtx, event.Event{}), ErrHubClosed)
	}
	assert.Less(t, time.Since(start), time.Second)
}
