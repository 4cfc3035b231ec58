package catalog

import (
	"database/sql"
	"strings"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Category is a row of the relational Categories table.
type Category struct {
	ID        int
	Name      string
	Equipment domain.EquipmentType
}

// SeedExercise is a row of the relational Exercises table.
type SeedExercise struct {
	ID               int
	CategoryID       int
	Name             string
	TargetArea       string
	SecondaryMuscles string
	Notes            string
	IntensityScore   int
}

// SeedCategories are the categories provisioned with a fresh database.
func SeedCategories() []Category {
	return []Category{
		{ID: 1, Name: "Home Workout", Equipment: domain.BodyWeights},
		{ID: 2, Name: "Body Workout", Equipment: domain.BodyWeights},
		{ID: 3, Name: "Weight Workout", Equipment: domain.FreeWeights},
		{ID: 4, Name: "Cable Workout", Equipment: domain.MachineWeights},
	}
}

// SeedExercises are the exercises provisioned with a fresh database.
func SeedExercises() []SeedExercise {
	return []SeedExercise{
		{ID: 1, CategoryID: 2, Name: "Chest-Focused Dips", TargetArea: "Lower Chest (Sternal Lower)", SecondaryMuscles: "Triceps, Anterior deltoids", Notes: "Lower pectoralis major. Leaning forward increases chest involvement.", IntensityScore: defaultIntensity},
		{ID: 2, CategoryID: 3, Name: "Incline Barbell Bench Press", TargetArea: "Upper Chest (Clavicular)", SecondaryMuscles: "Anterior deltoids, Triceps", IntensityScore: defaultIntensity},
		{ID: 3, CategoryID: 3, Name: "Flat Dumbbell Press", TargetArea: "Middle Chest (Sternal Mid)", SecondaryMuscles: "Triceps, Shoulders", Notes: "Middle pectoralis major. Offers a greater stretch at the bottom of the movement.", IntensityScore: defaultIntensity},
		{ID: 4, CategoryID: 4, Name: "High-to-Low Cable Fly", TargetArea: "Lower Chest (Sternal Lower)", SecondaryMuscles: "Inner chest fibers", Notes: "Lower pectoralis major. Downward cable path isolates the lower fibers effectively.", IntensityScore: defaultIntensity},
	}
}

// defaultIntensity is assigned to rows that carry no explicit rating.
const defaultIntensity = 5

const selectExercises = `SELECT e.exercise_name, c.equipment_type, e.target_area, e.secondary_muscles, e.notes, e.intensity_score
	FROM Exercises e JOIN Categories c ON c.category_id = e.category_id`

// row is the scanned form shared by every relational dialect.
type row struct {
	name       string
	equipment  string
	targetArea sql.NullString
	secondary  sql.NullString
	notes      sql.NullString
	intensity  int
}

func (r row) record() (domain.ExerciseRecord, error) {
	rec := domain.ExerciseRecord{
		Name:             r.name,
		Equipment:        domain.EquipmentType(r.equipment),
		TargetMuscle:     r.targetArea.String,
		SecondaryMuscles: splitMuscles(r.secondary.String),
		IntensityScore:   r.intensity,
		Notes:            r.notes.String,
	}
	return rec, rec.Validate()
}

func splitMuscles(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
