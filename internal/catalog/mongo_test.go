package catalog

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

func TestMatchFilterTargetsNestedMuscle(t *testing.T) {
	filter := matchFilter(domain.FreeWeights, "Lats")
	require.Equal(t, bson.M{
		"equipment_type":            "Free Weights",
		"targeting.specific_muscle": "Lats",
	}, filter)
}

func TestDocumentBSONShape(t *testing.T) {
	raw, err := bson.Marshal(toDocument(SeedRecords()[0]))
	require.NoError(t, err)

	muscle := bson.Raw(raw).Lookup("targeting", "specific_muscle")
	require.Equal(t, "Upper Chest (Clavicular)", muscle.StringValue())
	score := bson.Raw(raw).Lookup("metrics", "intensity_score")
	require.EqualValues(t, 10, score.AsInt64())

	var doc document
	require.NoError(t, bson.Unmarshal(raw, &doc))
	require.Equal(t, SeedRecords()[0], doc.record())
}

func TestMongoStoreAgainstLiveServer(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()

	store, err := ConnectMongo(ctx, uri, "exercise_app_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.collection.Drop(ctx)
		_ = store.Close(ctx)
	})

	for _, r := range SeedRecords() {
		require.NoError(t, store.Upsert(ctx, r))
	}
	require.NoError(t, store.Upsert(ctx, SeedRecords()[0]))

	all, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	got, err := domain.NewService(store).Recommend(ctx, domain.MachineWeights, "Lower Chest (Sternal Lower)", 3)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "Decline Chest Press Machine", got.Items[0].Name)

	require.NoError(t, store.Delete(ctx, "Chest-Focused Dips", domain.BodyWeights))
	all, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
