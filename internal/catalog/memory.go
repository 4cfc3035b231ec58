// Package catalog provides the data sources that back exercise recommendations.
package catalog

import (
	"context"
	"sync"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// SeedRecords returns the hand-curated chest exercises shipped with the app.
func SeedRecords() []domain.ExerciseRecord {
	return []domain.ExerciseRecord{
		{
			Name:             "Incline Chest Press Machine",
			Equipment:        domain.MachineWeights,
			PrimaryGroup:     "Chest & Triceps",
			TargetMuscle:     "Upper Chest (Clavicular)",
			SecondaryMuscles: []string{"Anterior Deltoids", "Triceps"},
			IntensityScore:   10,
			Mechanics:        "Compound",
			Notes:            "Only machine explicitly stated to target the upper pecs.",
		},
		{
			Name:             "Decline Chest Press Machine",
			Equipment:        domain.MachineWeights,
			PrimaryGroup:     "Chest & Triceps",
			TargetMuscle:     "Lower Chest (Sternal Lower)",
			SecondaryMuscles: []string{"Triceps", "Anterior Deltoids"},
			IntensityScore:   10,
			Mechanics:        "Compound",
			Notes:            "Only machine explicitly defined as targeting lower pecs.",
		},
		{
			Name:             "Chest-Focused Dips",
			Equipment:        domain.BodyWeights,
			PrimaryGroup:     "Chest & Triceps",
			TargetMuscle:     "Lower Chest (Sternal Lower)",
			SecondaryMuscles: []string{"Triceps", "Anterior Deltoids"},
			IntensityScore:   8,
			Mechanics:        "Compound",
			Notes:            "Leaning forward increases chest involvement.",
		},
	}
}

// MemoryStore keeps records in memory for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.ExerciseRecord
}

// NewMemoryStore constructs a store holding copies of records.
func NewMemoryStore(records ...domain.ExerciseRecord) *MemoryStore {
	s := &MemoryStore{}
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	return s
}

// Load implements domain.Source.
func (s *MemoryStore) Load(context.Context) ([]domain.ExerciseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ExerciseRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Upsert implements domain.Writer.
func (s *MemoryStore) Upsert(_ context.Context, record domain.ExerciseRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = upsertRecord(s.records, record.Clone())
	return nil
}

// Delete implements domain.Writer.
func (s *MemoryStore) Delete(_ context.Context, name string, equipment domain.EquipmentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = deleteRecord(s.records, name, equipment)
	return nil
}

// upsertRecord replaces the entry sharing name and equipment, or appends.
func upsertRecord(records []domain.ExerciseRecord, record domain.ExerciseRecord) []domain.ExerciseRecord {
	for i, existing := range records {
		if sameExercise(existing, record.Name, record.Equipment) {
			records[i] = record
			return records
		}
	}
	return append(records, record)
}

func deleteRecord(records []domain.ExerciseRecord, name string, equipment domain.EquipmentType) []domain.ExerciseRecord {
	out := records[:0]
	for _, existing := range records {
		if !sameExercise(existing, name, equipment) {
			out = append(out, existing)
		}
	}
	return out
}

func sameExercise(r domain.ExerciseRecord, name string, equipment domain.EquipmentType) bool {
	return r.Name == name && r.Equipment == equipment
}
