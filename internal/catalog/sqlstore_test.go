package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/navigation"
)

func newProvisionedSQLite(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()

	store, err := OpenSQLStore(ctx, DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Provision(ctx))
	return store
}

func TestSQLStoreProvisionIsIdempotent(t *testing.T) {
	store := newProvisionedSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Provision(ctx))

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(SeedExercises()))
}

func TestSQLStoreLoadMapsRows(t *testing.T) {
	store := newProvisionedSQLite(t)

	records, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, domain.ExerciseRecord{
		Name:             "Chest-Focused Dips",
		Equipment:        domain.BodyWeights,
		TargetMuscle:     "Lower Chest (Sternal Lower)",
		SecondaryMuscles: []string{"Triceps", "Anterior deltoids"},
		IntensityScore:   5,
		Notes:            "Lower pectoralis major. Leaning forward increases chest involvement.",
	}, records[0])
	require.Empty(t, records[1].Notes, "NULL notes map to an empty string")
}

func TestSQLStoreByCategoryUsesExactID(t *testing.T) {
	store := newProvisionedSQLite(t)
	ctx := context.Background()

	weights, err := store.ByCategory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, weights, 2)
	for _, r := range weights {
		require.Equal(t, domain.FreeWeights, r.Equipment)
	}

	home, err := store.ByCategory(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, home)

	unknown, err := store.ByCategory(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, unknown)
	require.Empty(t, unknown)
}

func TestSQLStoreMatchingFeedsSelector(t *testing.T) {
	store := newProvisionedSQLite(t)
	service := domain.NewService(store)

	got, err := service.Recommend(context.Background(), domain.MachineWeights, "Lower Chest (Sternal Lower)", domain.DefaultTopK)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "High-to-Low Cable Fly", got.Items[0].Name)
	require.Equal(t, len(SeedExercises()), got.CatalogSize)
}

func TestSQLStoreSeedsAreReachableFromMenu(t *testing.T) {
	store := newProvisionedSQLite(t)
	service := domain.NewService(store)
	menu := navigation.DefaultMenu()

	found := map[string]bool{}
	for _, eq := range menu.Equipment {
		for _, group := range menu.Groups {
			for _, muscle := range group.Muscles {
				got, err := service.Recommend(context.Background(), eq, muscle, len(SeedExercises()))
				require.NoError(t, err)
				for _, item := range got.Items {
					found[item.Name] = true
				}
			}
		}
	}

	for _, e := range SeedExercises() {
		require.True(t, found[e.Name], "%s is not reachable from any menu path", e.Name)
	}
}

func TestMySQLDSN(t *testing.T) {
	require.Equal(t, "app:secret@tcp(db:3306)/exercises?parseTime=true", mysqlDSN("mysql://app:secret@db:3306/exercises?parseTime=true"))
	require.Equal(t, "app:secret@tcp(db:3306)/exercises", mysqlDSN("app:secret@tcp(db:3306)/exercises"))
}

func TestOpenSQLStoreRejectsUnknownDialect(t *testing.T) {
	_, err := OpenSQLStore(context.Background(), Dialect("oracle"), "x")
	require.Error(t, err)
}
