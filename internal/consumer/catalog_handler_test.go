package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/events"
)

type recordingInvalidator struct {
	names []string
	err   error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, name string) error {
	r.names = append(r.names, name)
	return r.err
}

func eventMessage(t *testing.T, eventType string, payload any) Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Message{Topic: "exercise_catalog", Payload: raw, Headers: map[string]string{"event_type": eventType}}
}

func TestCatalogHandlerAppliesUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore(catalog.SeedRecords()...)
	inv := &recordingInvalidator{}
	logger, _ := logtest.NewNullLogger()
	handler := NewCatalogHandler(store, inv, logger)

	pullUps := domain.ExerciseRecord{Name: "Pull-Ups", Equipment: domain.BodyWeights, TargetMuscle: "Lats", IntensityScore: 9}
	require.NoError(t, handler.Handle(ctx, eventMessage(t, events.TypeExerciseUpserted, events.UpsertedFrom(pullUps, time.Now()))))

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, []domain.ExerciseRecord{pullUps}, domain.SelectTopK(records, domain.BodyWeights, "Lats", 3))

	require.NoError(t, handler.Handle(ctx, eventMessage(t, events.TypeExerciseDeleted, events.ExerciseDeleted{
		Name:      "Pull-Ups",
		Equipment: string(domain.BodyWeights),
		DeletedAt: time.Now(),
	})))
	records, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, []string{"Pull-Ups", "Pull-Ups"}, inv.names)
}

func TestCatalogHandlerRejectsInvalidEvents(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	inv := &recordingInvalidator{}
	logger, _ := logtest.NewNullLogger()
	handler := NewCatalogHandler(store, inv, logger)

	err := handler.Handle(ctx, eventMessage(t, events.TypeExerciseUpserted, events.ExerciseUpserted{Name: "Ring Dips", Equipment: "Rings", TargetMuscle: "Chest"}))
	require.ErrorIs(t, err, domain.ErrInvalidRecord)

	err = handler.Handle(ctx, Message{Payload: []byte("{"), Headers: map[string]string{"event_type": events.TypeExerciseDeleted}})
	require.Error(t, err)

	require.NoError(t, handler.Handle(ctx, eventMessage(t, "exercise.viewed", map[string]string{})))
	require.Empty(t, inv.names)
}

func TestCatalogHandlerToleratesInvalidationFailure(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	logger, hook := logtest.NewNullLogger()
	handler := NewCatalogHandler(store, &recordingInvalidator{err: errors.New("api down")}, logger)

	rec := domain.ExerciseRecord{Name: "Hammer Curl", Equipment: domain.FreeWeights, TargetMuscle: "Biceps", IntensityScore: 6}
	require.NoError(t, handler.Handle(ctx, eventMessage(t, events.TypeExerciseUpserted, events.UpsertedFrom(rec, time.Now()))))

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "cache invalidation failed", hook.LastEntry().Message)
}
