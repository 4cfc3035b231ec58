package catalog

import (
	"context"
	"encoding/json"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// ErrMalformedDocument indicates the document file is not a JSON array of exercises.
var ErrMalformedDocument = errors.New("malformed exercise document")

// document mirrors the nested on-disk shape of a single exercise.
type document struct {
	ExerciseName  string    `json:"exercise_name" bson:"exercise_name"`
	EquipmentType string    `json:"equipment_type" bson:"equipment_type"`
	Targeting     targeting `json:"targeting" bson:"targeting"`
	Metrics       metrics   `json:"metrics" bson:"metrics"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

type targeting struct {
	PrimaryGroup     string   `json:"primary_group,omitempty" bson:"primary_group,omitempty"`
	SpecificMuscle   string   `json:"specific_muscle" bson:"specific_muscle"`
	SecondaryMuscles []string `json:"secondary_muscles" bson:"secondary_muscles"`
}

type metrics struct {
	IntensityScore int    `json:"intensity_score" bson:"intensity_score"`
	Mechanics      string `json:"mechanics,omitempty" bson:"mechanics,omitempty"`
}

func toDocument(r domain.ExerciseRecord) document {
	secondary := r.SecondaryMuscles
	if secondary == nil {
		secondary = []string{}
	}
	return document{
		ExerciseName:  r.Name,
		EquipmentType: string(r.Equipment),
		Targeting: targeting{
			PrimaryGroup:     r.PrimaryGroup,
			SpecificMuscle:   r.TargetMuscle,
			SecondaryMuscles: secondary,
		},
		Metrics: metrics{
			IntensityScore: r.IntensityScore,
			Mechanics:      r.Mechanics,
		},
		Notes: r.Notes,
	}
}

func (d document) record() domain.ExerciseRecord {
	var secondary []string
	if len(d.Targeting.SecondaryMuscles) > 0 {
		secondary = append(secondary, d.Targeting.SecondaryMuscles...)
	}
	return domain.ExerciseRecord{
		Name:             d.ExerciseName,
		Equipment:        domain.EquipmentType(d.EquipmentType),
		PrimaryGroup:     d.Targeting.PrimaryGroup,
		TargetMuscle:     d.Targeting.SpecificMuscle,
		SecondaryMuscles: secondary,
		IntensityScore:   d.Metrics.IntensityScore,
		Mechanics:        d.Metrics.Mechanics,
		Notes:            d.Notes,
	}
}

// DocumentStore reads and writes the JSON document file.
// A missing file is an empty catalog.
type DocumentStore struct {
	mu   sync.Mutex
	path string
}

// NewDocumentStore constructs a store for the file at path.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// Path returns the backing file location.
func (s *DocumentStore) Path() string { return s.path }

// Load implements domain.Source.
func (s *DocumentStore) Load(context.Context) ([]domain.ExerciseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save replaces the file contents with records.
func (s *DocumentStore) Save(_ context.Context, records []domain.ExerciseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(records)
}

// Upsert implements domain.Writer.
func (s *DocumentStore) Upsert(_ context.Context, record domain.ExerciseRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	return s.write(upsertRecord(records, record.Clone()))
}

// Delete implements domain.Writer.
func (s *DocumentStore) Delete(_ context.Context, name string, equipment domain.EquipmentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	return s.write(deleteRecord(records, name, equipment))
}

func (s *DocumentStore) read() ([]domain.ExerciseRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.ExerciseRecord{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	records, err := ParseDocuments(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", s.path)
	}
	return records, nil
}

func (s *DocumentStore) write(records []domain.ExerciseRecord) error {
	docs := make([]document, len(records))
	for i, r := range records {
		docs[i] = toDocument(r)
	}
	body, err := json.MarshalIndent(docs, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode documents")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path), "replace %s", s.path)
}

// ParseDocuments validates a JSON array of exercise documents into records.
func ParseDocuments(data []byte) ([]domain.ExerciseRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrMalformedDocument, "invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.Wrap(ErrMalformedDocument, "top level must be an array")
	}

	records := make([]domain.ExerciseRecord, 0)
	var parseErr error
	index := 0
	root.ForEach(func(_, value gjson.Result) bool {
		r, err := parseDocument(value)
		if err != nil {
			parseErr = errors.Wrapf(err, "record %d", index)
			return false
		}
		records = append(records, r)
		index++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return records, nil
}

func parseDocument(value gjson.Result) (domain.ExerciseRecord, error) {
	if !value.IsObject() {
		return domain.ExerciseRecord{}, errors.Wrap(ErrMalformedDocument, "expected object")
	}

	name, err := stringField(value, "exercise_name", true)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	equipment, err := stringField(value, "equipment_type", true)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	muscle, err := stringField(value, "targeting.specific_muscle", true)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	group, err := stringField(value, "targeting.primary_group", false)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	mechanics, err := stringField(value, "metrics.mechanics", false)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	notes, err := stringField(value, "notes", false)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}

	score := value.Get("metrics.intensity_score")
	if score.Type != gjson.Number || score.Num != math.Trunc(score.Num) {
		return domain.ExerciseRecord{}, errors.Wrap(ErrMalformedDocument, "metrics.intensity_score must be an integer")
	}

	var secondary []string
	if list := value.Get("targeting.secondary_muscles"); list.Exists() && list.Type != gjson.Null {
		if !list.IsArray() {
			return domain.ExerciseRecord{}, errors.Wrap(ErrMalformedDocument, "targeting.secondary_muscles must be an array")
		}
		for _, item := range list.Array() {
			if item.Type != gjson.String {
				return domain.ExerciseRecord{}, errors.Wrap(ErrMalformedDocument, "targeting.secondary_muscles must hold strings")
			}
			secondary = append(secondary, item.Str)
		}
	}

	record := domain.ExerciseRecord{
		Name:             name,
		Equipment:        domain.EquipmentType(equipment),
		PrimaryGroup:     group,
		TargetMuscle:     muscle,
		SecondaryMuscles: secondary,
		IntensityScore:   int(score.Int()),
		Mechanics:        mechanics,
		Notes:            notes,
	}
	if err := record.Validate(); err != nil {
		return domain.ExerciseRecord{}, err
	}
	return record, nil
}

func stringField(value gjson.Result, path string, required bool) (string, error) {
	field := value.Get(path)
	if !field.Exists() || field.Type == gjson.Null {
		if required {
			return "", errors.Wrapf(ErrMalformedDocument, "%s is required", path)
		}
		return "", nil
	}
	if field.Type != gjson.String {
		return "", errors.Wrapf(ErrMalformedDocument, "%s must be a string", path)
	}
	return field.Str, nil
}
