package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/observability"
)

// Source supplies the exercise catalog.
type Source interface {
	Load(ctx context.Context) ([]ExerciseRecord, error)
}

// MatchingSource can push the equality filter and the catalog count down to
// the underlying store.
type MatchingSource interface {
	Source
	Matching(ctx context.Context, equipment EquipmentType, muscle string) ([]ExerciseRecord, error)
	Count(ctx context.Context) (int, error)
}

// CategorySource exposes the category-keyed lookup of the relational variant.
type CategorySource interface {
	ByCategory(ctx context.Context, categoryID int) ([]ExerciseRecord, error)
}

// Writer persists catalog changes.
type Writer interface {
	Upsert(ctx context.Context, record ExerciseRecord) error
	Delete(ctx context.Context, name string, equipment EquipmentType) error
}

var (
	// ErrCategoriesUnsupported indicates the configured source has no category table.
	ErrCategoriesUnsupported = errors.New("catalog source does not support categories")
	// ErrInvalidTopK indicates a negative result size.
	ErrInvalidTopK = errors.New("k must not be negative")
)

// Recommendation is the outcome of a single query.
type Recommendation struct {
	Items       []ExerciseRecord `json:"items"`
	CatalogSize int              `json:"catalog_size"`
}

// Service answers recommendation queries against a Source.
type Service struct {
	source Source
}

// NewService constructs a new Service.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Recommend returns the top k exercises for the equipment and muscle pair.
// CatalogSize lets callers tell an empty catalog apart from a query without matches.
func (s *Service) Recommend(ctx context.Context, equipment EquipmentType, muscle string, k int) (Recommendation, error) {
	if k < 0 {
		return Recommendation{}, ErrInvalidTopK
	}

	var (
		candidates []ExerciseRecord
		size       int
		err        error
	)
	if ms, ok := s.source.(MatchingSource); ok {
		if size, err = ms.Count(ctx); err != nil {
			return Recommendation{}, fmt.Errorf("count catalog: %w", err)
		}
		if candidates, err = ms.Matching(ctx, equipment, muscle); err != nil {
			return Recommendation{}, fmt.Errorf("query catalog: %w", err)
		}
	} else {
		if candidates, err = s.source.Load(ctx); err != nil {
			return Recommendation{}, fmt.Errorf("load catalog: %w", err)
		}
		size = len(candidates)
	}
	observability.RecordCatalogLoad(size, time.Now().UTC())

	items := SelectTopK(candidates, equipment, muscle, k)
	observability.RecordRecommendation(equipmentLabel(equipment), len(items))
	return Recommendation{Items: items, CatalogSize: size}, nil
}

// equipmentLabel keeps the metric label set fixed to the known equipment types.
func equipmentLabel(equipment EquipmentType) string {
	if eq, ok := ParseEquipmentType(string(equipment)); ok {
		return string(eq)
	}
	return observability.UnknownEquipment
}

// Catalog returns every record known to the source.
func (s *Service) Catalog(ctx context.Context) ([]ExerciseRecord, error) {
	all, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	observability.RecordCatalogLoad(len(all), time.Now().UTC())
	return all, nil
}

// ByCategory returns the exercises filed under a relational category id.
func (s *Service) ByCategory(ctx context.Context, categoryID int) ([]ExerciseRecord, error) {
	cs, ok := s.source.(CategorySource)
	if !ok {
		return nil, ErrCategoriesUnsupported
	}
	return cs.ByCategory(ctx, categoryID)
}
