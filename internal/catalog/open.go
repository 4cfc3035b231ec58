package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/config"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Handle is an opened catalog backend. Writer is nil for read-only backends.
type Handle struct {
	Kind   string
	Source domain.Source
	Writer domain.Writer
	close  func(context.Context) error
}

// Close releases connections held by the backend.
func (h *Handle) Close(ctx context.Context) error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close(ctx)
}

// Open connects to the backend selected by cfg.CatalogSource.
func Open(ctx context.Context, cfg config.Config) (*Handle, error) {
	switch cfg.CatalogSource {
	case config.SourceJSON:
		store := NewDocumentStore(cfg.JSONPath)
		return &Handle{Kind: cfg.CatalogSource, Source: store, Writer: store}, nil

	case config.SourceMemory:
		store := NewMemoryStore(SeedRecords()...)
		return &Handle{Kind: cfg.CatalogSource, Source: store, Writer: store}, nil

	case config.SourceSQLite, config.SourceMySQL:
		store, err := OpenSQLStore(ctx, Dialect(cfg.CatalogSource), cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		return &Handle{
			Kind:   cfg.CatalogSource,
			Source: store,
			close:  func(context.Context) error { return store.Close() },
		}, nil

	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, errors.Wrap(err, "connect postgres")
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "ping postgres")
		}
		return &Handle{
			Kind:   cfg.CatalogSource,
			Source: NewPostgresStore(pool),
			close:  func(context.Context) error { pool.Close(); return nil },
		}, nil

	case config.SourceMongo:
		store, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Handle{Kind: cfg.CatalogSource, Source: store, Writer: store, close: store.Close}, nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}
