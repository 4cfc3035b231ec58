package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Invalidator defines a cache invalidation contract.
type Invalidator interface {
	Invalidate(ctx context.Context, exerciseName string) error
}

// NoopInvalidator is a no-op implementation.
type NoopInvalidator struct{}

// Invalidate performs no action.
func (NoopInvalidator) Invalidate(context.Context, string) error { return nil }

const catalogKey = "catalog"

// CachedSource memoises the catalog of an underlying source for a TTL.
type CachedSource struct {
	inner domain.Source
	store *gocache.Cache
}

// NewCachedSource wraps inner with a TTL cache.
func NewCachedSource(inner domain.Source, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, store: gocache.New(ttl, 2*ttl)}
}

// Load implements domain.Source.
func (c *CachedSource) Load(ctx context.Context) ([]domain.ExerciseRecord, error) {
	if cached, ok := c.store.Get(catalogKey); ok {
		return clone(cached.([]domain.ExerciseRecord)), nil
	}
	records, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.store.SetDefault(catalogKey, clone(records))
	return records, nil
}

// ByCategory implements domain.CategorySource when the wrapped source does.
func (c *CachedSource) ByCategory(ctx context.Context, categoryID int) ([]domain.ExerciseRecord, error) {
	cs, ok := c.inner.(domain.CategorySource)
	if !ok {
		return nil, domain.ErrCategoriesUnsupported
	}
	return cs.ByCategory(ctx, categoryID)
}

// Invalidate drops the cached catalog. Any change invalidates the whole
// collection, so the exercise name is ignored.
func (c *CachedSource) Invalidate(context.Context, string) error {
	c.store.Delete(catalogKey)
	return nil
}

func clone(records []domain.ExerciseRecord) []domain.ExerciseRecord {
	out := make([]domain.ExerciseRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
