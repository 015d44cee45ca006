package queue

import (
	"context"
	"time"

	"github.com/unclebandit/crm-backend/internal/logging"
	"github.com/unclebandit/crm-backend/internal/model"
)

// EventStore persists customer events.
type EventStore interface {
	Create(ctx context.Context, e *model.CustomerEvent) error
}

// StartAuditSubscriber stores every event published on topic.
func StartAuditSubscriber(q Queue, topic string, store EventStore) error {
	return q.Subscribe(topic, func(payload any) error {
		var event model.CustomerEvent
		if err := decodeJSON(payload, &event); err != nil {
			logging.Warnf("dropping malformed customer event: %v", err)
			return nil // no retry
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.Create(ctx, &event); err != nil {
			return err // retry
		}
		logging.Debugf("recorded %s for customer %d", event.Type, event.CustomerID)
		return nil
	})
}
