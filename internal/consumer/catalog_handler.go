package consumer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/cache"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/events"
)

// CatalogHandler applies exercise events to a writable catalog store.
type CatalogHandler struct {
	store       domain.Writer
	invalidator cache.Invalidator
	logger      logrus.FieldLogger
}

// NewCatalogHandler constructs a handler writing to store and invalidating
// cached catalogs after every change.
func NewCatalogHandler(store domain.Writer, invalidator cache.Invalidator, logger logrus.FieldLogger) *CatalogHandler {
	if invalidator == nil {
		invalidator = cache.NoopInvalidator{}
	}
	return &CatalogHandler{store: store, invalidator: invalidator, logger: logger}
}

// Handle dispatches on the event_type header. Unknown types are ignored.
func (h *CatalogHandler) Handle(ctx context.Context, msg Message) error {
	var name string
	switch msg.Headers[eventTypeHeader] {
	case events.TypeExerciseUpserted:
		var evt events.ExerciseUpserted
		if err := events.Decode(msg.Payload, &evt); err != nil {
			return err
		}
		rec, err := evt.Record()
		if err != nil {
			return err
		}
		if err := h.store.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("upsert %q: %w", rec.Name, err)
		}
		name = rec.Name

	case events.TypeExerciseDeleted:
		var evt events.ExerciseDeleted
		if err := events.Decode(msg.Payload, &evt); err != nil {
			return err
		}
		if err := h.store.Delete(ctx, evt.Name, domain.EquipmentType(evt.Equipment)); err != nil {
			return fmt.Errorf("delete %q: %w", evt.Name, err)
		}
		name = evt.Name

	default:
		return nil
	}

	if err := h.invalidator.Invalidate(ctx, name); err != nil {
		// the store already holds the change; cached readers catch up on TTL expiry
		h.logger.WithError(err).WithField("exercise", name).Warn("cache invalidation failed")
	}
	return nil
}
