package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

type countingSource struct {
	inner domain.Source
	loads int
	err   error
}

func (s *countingSource) Load(ctx context.Context) ([]domain.ExerciseRecord, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Load(ctx)
}

func TestCachedSourceServesFromCacheUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	inner := &countingSource{inner: catalog.NewMemoryStore(catalog.SeedRecords()...)}
	cached := NewCachedSource(inner, time.Minute)

	first, err := cached.Load(ctx)
	require.NoError(t, err)
	second, err := cached.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.loads)

	second[0].SecondaryMuscles[0] = "changed"
	third, err := cached.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Anterior Deltoids", third[0].SecondaryMuscles[0])

	require.NoError(t, cached.Invalidate(ctx, "Incline Chest Press Machine"))
	_, err = cached.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, inner.loads)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	inner := &countingSource{err: errors.New("unavailable")}
	cached := NewCachedSource(inner, time.Minute)

	_, err := cached.Load(ctx)
	require.Error(t, err)
	_, err = cached.Load(ctx)
	require.Error(t, err)
	require.Equal(t, 2, inner.loads)
}

func TestCachedSourceByCategoryRequiresCategorySource(t *testing.T) {
	cached := NewCachedSource(catalog.NewMemoryStore(), time.Minute)
	_, err := cached.ByCategory(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrCategoriesUnsupported)
}

func TestRemoteInvalidatorPostsExerciseName(t *testing.T) {
	var got InvalidationRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	inv := NewRemoteInvalidator(srv.URL+"/", StaticToken("token"), time.Second)
	require.NoError(t, inv.Invalidate(context.Background(), "Pull-Ups"))
	require.Equal(t, "Pull-Ups", got.ExerciseName)
	require.Equal(t, "Bearer token", auth)
}

func TestRemoteInvalidatorReportsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewRemoteInvalidator(srv.URL, nil, time.Second).Invalidate(context.Background(), "Pull-Ups")
	var invErr *InvalidationError
	require.ErrorAs(t, err, &invErr)
	require.Equal(t, http.StatusForbidden, invErr.Status)
}

func TestInvalidatorsFanOut(t *testing.T) {
	ctx := context.Background()
	inner := &countingSource{inner: catalog.NewMemoryStore(catalog.SeedRecords()...)}
	cached := NewCachedSource(inner, time.Minute)
	_, err := cached.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, Invalidators{NoopInvalidator{}, cached}.Invalidate(ctx, "x"))
	_, err = cached.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, inner.loads)
}
