package service

import (
	"context"
	"time"

	"go-pos-core/internal/event"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// publish runs only after commit; a failed delivery is logged and otherwise ignored.
func publish(log *zap.Logger, pub event.Publisher, t event.Type, key string, payload any, at time.Time) {
	if pub == nil {
		return
	}
	e, err := event.New(t, key, payload, at)
	if err != nil {
		log.Warn("event encode failed", zap.String("type", string(t)), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn("event publish failed", zap.String("type", string(t)), zap.String("event_id", e.ID), zap.Error(err))
	}
}
