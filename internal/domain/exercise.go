package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EquipmentType is the coarse category of apparatus an exercise needs.
type EquipmentType string

// Supported equipment types. Values match the labels shown to users.
const (
	FreeWeights    EquipmentType = "Free Weights"
	BodyWeights    EquipmentType = "Body Weights"
	MachineWeights EquipmentType = "Machine Weights"
)

// Intensity score bounds.
const (
	MinIntensity = 0
	MaxIntensity = 10
)

// ErrInvalidRecord marks a record that failed load-time validation.
var ErrInvalidRecord = errors.New("invalid exercise record")

// EquipmentTypes lists the supported equipment types in display order.
func EquipmentTypes() []EquipmentType {
	return []EquipmentType{FreeWeights, BodyWeights, MachineWeights}
}

// ParseEquipmentType returns the equipment type matching value exactly.
func ParseEquipmentType(value string) (EquipmentType, bool) {
	for _, eq := range EquipmentTypes() {
		if string(eq) == value {
			return eq, true
		}
	}
	return "", false
}

// ExerciseRecord is a single catalog entry.
type ExerciseRecord struct {
	Name             string        `json:"exercise_name"`
	Equipment        EquipmentType `json:"equipment_type"`
	PrimaryGroup     string        `json:"primary_group,omitempty"`
	TargetMuscle     string        `json:"specific_muscle"`
	SecondaryMuscles []string      `json:"secondary_muscles,omitempty"`
	IntensityScore   int           `json:"intensity_score"`
	Mechanics        string        `json:"mechanics,omitempty"`
	Notes            string        `json:"notes,omitempty"`
}

// Matches reports whether the record satisfies both filters exactly.
func (r ExerciseRecord) Matches(equipment EquipmentType, muscle string) bool {
	return r.Equipment == equipment && r.TargetMuscle == muscle
}

// Validate checks the fields every data source must provide.
func (r ExerciseRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: exercise_name is required", ErrInvalidRecord)
	}
	if _, ok := ParseEquipmentType(string(r.Equipment)); !ok {
		return fmt.Errorf("%w: %q has unknown equipment_type %q", ErrInvalidRecord, r.Name, r.Equipment)
	}
	if strings.TrimSpace(r.TargetMuscle) == "" {
		return fmt.Errorf("%w: %q has no specific_muscle", ErrInvalidRecord, r.Name)
	}
	if r.IntensityScore < MinIntensity || r.IntensityScore > MaxIntensity {
		return fmt.Errorf("%w: %q intensity_score %d outside %d..%d", ErrInvalidRecord, r.Name, r.IntensityScore, MinIntensity, MaxIntensity)
	}
	return nil
}

// Clone returns a copy that shares no slices with r.
func (r ExerciseRecord) Clone() ExerciseRecord {
	if r.SecondaryMuscles != nil {
		r.SecondaryMuscles = append([]string(nil), r.SecondaryMuscles...)
	}
	return r
}
