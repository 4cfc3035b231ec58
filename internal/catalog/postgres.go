package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// PostgresStore serves the relational variant from Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Provision creates the schema if missing and seeds default rows.
func (s *PostgresStore) Provision(ctx context.Context) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin provision")
	}
	defer tx.Rollback(ctx)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			category_id INTEGER PRIMARY KEY,
			category_name VARCHAR(50) NOT NULL,
			equipment_type VARCHAR(50) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			exercise_id INTEGER PRIMARY KEY,
			category_id INTEGER REFERENCES categories(category_id),
			exercise_name VARCHAR(100) NOT NULL,
			target_area VARCHAR(100),
			secondary_muscles VARCHAR(255),
			notes TEXT,
			intensity_score INTEGER NOT NULL DEFAULT 5
		)`,
	}
	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "initialize schema")
		}
	}

	const insertCategory = `INSERT INTO categories (category_id, category_name, equipment_type)
		VALUES ($1,$2,$3) ON CONFLICT (category_id) DO NOTHING`
	for _, c := range SeedCategories() {
		if _, err := tx.Exec(ctx, insertCategory, c.ID, c.Name, string(c.Equipment)); err != nil {
			return errors.Wrapf(err, "seed category %d", c.ID)
		}
	}

	const insertExercise = `INSERT INTO exercises (exercise_id, category_id, exercise_name, target_area, secondary_muscles, notes, intensity_score)
		VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (exercise_id) DO NOTHING`
	for _, e := range SeedExercises() {
		if _, err := tx.Exec(ctx, insertExercise, e.ID, e.CategoryID, e.Name, nullIfEmpty(e.TargetArea), nullIfEmpty(e.SecondaryMuscles), nullIfEmpty(e.Notes), e.IntensityScore); err != nil {
			return errors.Wrapf(err, "seed exercise %d", e.ID)
		}
	}

	return errors.Wrap(tx.Commit(ctx), "commit provision")
}

// Load implements domain.Source.
func (s *PostgresStore) Load(ctx context.Context) ([]domain.ExerciseRecord, error) {
	return s.query(ctx, selectExercises+` ORDER BY e.exercise_id`)
}

// Matching implements domain.MatchingSource.
func (s *PostgresStore) Matching(ctx context.Context, equipment domain.EquipmentType, muscle string) ([]domain.ExerciseRecord, error) {
	return s.query(ctx, selectExercises+` WHERE c.equipment_type = $1 AND e.target_area = $2 ORDER BY e.exercise_id`, string(equipment), muscle)
}

// Count implements domain.MatchingSource.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n)
	return n, errors.Wrap(err, "count exercises")
}

// ByCategory implements domain.CategorySource.
func (s *PostgresStore) ByCategory(ctx context.Context, categoryID int) ([]domain.ExerciseRecord, error) {
	return s.query(ctx, selectExercises+` WHERE e.category_id = $1 ORDER BY e.exercise_id`, categoryID)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]domain.ExerciseRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query exercises")
	}
	defer rows.Close()

	records := make([]domain.ExerciseRecord, 0)
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.name, &r.equipment, &r.targetArea, &r.secondary, &r.notes, &r.intensity); err != nil {
			return nil, errors.Wrap(err, "scan exercise")
		}
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate exercises")
	}
	return records, nil
}
