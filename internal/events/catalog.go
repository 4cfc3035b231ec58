// Package events defines the payloads published on the exercise catalog topic.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Event types carried in the event_type header.
const (
	TypeExerciseUpserted = "exercise.upserted"
	TypeExerciseDeleted  = "exercise.deleted"
)

// HeaderEventType names the Kafka header holding the event type.
const HeaderEventType = "event_type"

// ExerciseUpserted is emitted when an exercise is created or updated.
type ExerciseUpserted struct {
	Name             string    `json:"exercise_name"`
	Equipment        string    `json:"equipment_type"`
	PrimaryGroup     string    `json:"primary_group,omitempty"`
	TargetMuscle     string    `json:"specific_muscle"`
	SecondaryMuscles []string  `json:"secondary_muscles,omitempty"`
	IntensityScore   int       `json:"intensity_score"`
	Mechanics        string    `json:"mechanics,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Record converts the event into a validated catalog record.
func (e ExerciseUpserted) Record() (domain.ExerciseRecord, error) {
	rec := domain.ExerciseRecord{
		Name:             e.Name,
		Equipment:        domain.EquipmentType(e.Equipment),
		PrimaryGroup:     e.PrimaryGroup,
		TargetMuscle:     e.TargetMuscle,
		SecondaryMuscles: append([]string(nil), e.SecondaryMuscles...),
		IntensityScore:   e.IntensityScore,
		Mechanics:        e.Mechanics,
		Notes:            e.Notes,
	}
	if err := rec.Validate(); err != nil {
		return domain.ExerciseRecord{}, err
	}
	return rec, nil
}

// UpsertedFrom builds the event for a record.
func UpsertedFrom(rec domain.ExerciseRecord, at time.Time) ExerciseUpserted {
	return ExerciseUpserted{
		Name:             rec.Name,
		Equipment:        string(rec.Equipment),
		PrimaryGroup:     rec.PrimaryGroup,
		TargetMuscle:     rec.TargetMuscle,
		SecondaryMuscles: append([]string(nil), rec.SecondaryMuscles...),
		IntensityScore:   rec.IntensityScore,
		Mechanics:        rec.Mechanics,
		Notes:            rec.Notes,
		UpdatedAt:        at,
	}
}

// ExerciseDeleted is emitted when an exercise is removed.
type ExerciseDeleted struct {
	Name      string    `json:"exercise_name"`
	Equipment string    `json:"equipment_type"`
	DeletedAt time.Time `json:"deleted_at"`
}

// Decode unmarshals payload into v, tolerating the schema-registry wire
// prefix (magic byte plus 4-byte schema id).
func Decode(payload []byte, v any) error {
	if len(payload) >= 5 && payload[0] == 0x00 {
		payload = payload[5:]
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return nil
}
