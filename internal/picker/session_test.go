package picker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/navigation"
)

func runSession(t *testing.T, rec Recommender, input string) string {
	t.Helper()
	var out bytes.Buffer
	nav := navigation.NewNavigator(navigation.DefaultMenu())
	err := NewSession(nav, rec, domain.DefaultTopK, strings.NewReader(input), &out).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func seededService() *domain.Service {
	return domain.NewService(catalog.NewMemoryStore(catalog.SeedRecords()...))
}

func TestSessionWalksToResults(t *testing.T) {
	// Machine Weights -> Chest & Triceps -> Upper Chest (Clavicular)
	out := runSession(t, seededService(), "3\n1\n1\nq\n")

	require.Contains(t, out, "Step 1: Select Equipment")
	require.Contains(t, out, "Equipment: Machine Weights")
	require.Contains(t, out, "Step 3: Target Area")
	require.Contains(t, out, "#1: Incline Chest Press Machine")
	require.Contains(t, out, "Intensity: 10/10")
	require.Contains(t, out, "Notes: Only machine explicitly stated to target the upper pecs.")
	require.NotContains(t, out, "#2:")
}

func TestSessionReportsNoMatches(t *testing.T) {
	// Free Weights -> Back & Biceps -> Lats
	out := runSession(t, seededService(), "1\n2\n1\n")
	require.Contains(t, out, "No exercises found for this combination.")
}

func TestSessionFillsMissingNotes(t *testing.T) {
	store := catalog.NewMemoryStore(domain.ExerciseRecord{
		Name: "Pull-Ups", Equipment: domain.BodyWeights, TargetMuscle: "Lats", IntensityScore: 9,
	})
	out := runSession(t, domain.NewService(store), "2\n2\n1\nq\n")
	require.Contains(t, out, "#1: Pull-Ups")
	require.Contains(t, out, "Notes: No notes available.")
}

func TestSessionBackAndStartOver(t *testing.T) {
	// choose equipment, go back, choose again, walk to results, start over, quit
	out := runSession(t, seededService(), "2\nb\n2\n1\n3\n\nq\n")

	require.Equal(t, 3, strings.Count(out, "Step 1: Select Equipment"))
	require.Contains(t, out, "#1: Chest-Focused Dips")
}

func TestSessionRejectsBadInput(t *testing.T) {
	out := runSession(t, seededService(), "7\nb\nabc\nq\n")
	require.Contains(t, out, "! unrecognised choice: enter a number between 1 and 3")
	require.Contains(t, out, "! that option is not available here")
}

type failingRecommender struct{}

func (failingRecommender) Recommend(context.Context, domain.EquipmentType, string, int) (domain.Recommendation, error) {
	return domain.Recommendation{}, errors.New("catalog offline")
}

func TestSessionSurfacesRecommendErrors(t *testing.T) {
	nav := navigation.NewNavigator(navigation.DefaultMenu())
	var out bytes.Buffer
	err := NewSession(nav, failingRecommender{}, 3, strings.NewReader("1\n1\n1\n"), &out).Run(context.Background())
	require.ErrorContains(t, err, "catalog offline")
}
