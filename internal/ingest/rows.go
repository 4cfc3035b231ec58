// Package ingest turns spreadsheet exports into catalog records.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Column headers expected in the source sheet.
const (
	ColumnExercise  = "Exercise"
	ColumnEquipment = "Equipment Type"
	ColumnMuscle    = "Muscle Group"
)

// Defaults applied to imported rows, which carry no targeting detail of their own.
const (
	ImportedPrimaryGroup = "Back & Biceps"
	ImportedIntensity    = 5
	ImportedMechanics    = "Compound"
	ImportedNotes        = "Imported from CSV."
)

// ErrMissingColumn indicates the header row lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Row is one exercise line from the sheet.
type Row struct {
	Line      int
	Exercise  string
	Equipment string
	Muscle    string
}

// ReadCSV parses rows from CSV data with a header line.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var table []line
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		n, _ := reader.FieldPos(0)
		table = append(table, line{number: n, cells: cells})
	}
	return parseTable(table)
}

// ReadWorkbook parses rows from an .xlsx workbook. An empty sheet name selects
// the first sheet.
func ReadWorkbook(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	sheetRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	table := make([]line, len(sheetRows))
	for i, cells := range sheetRows {
		table[i] = line{number: i + 1, cells: cells}
	}
	return parseTable(table)
}

// line is a sheet row with its 1-based position in the source.
type line struct {
	number int
	cells  []string
}

func parseTable(table []line) ([]Row, error) {
	if len(table) == 0 {
		return []Row{}, nil
	}

	header := make(map[string]int, len(table[0].cells))
	for i, name := range table[0].cells {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	idx := make([]int, 0, 3)
	for _, col := range []string{ColumnExercise, ColumnEquipment, ColumnMuscle} {
		i, ok := header[col]
		if !ok {
			return nil, errors.Wrap(ErrMissingColumn, col)
		}
		idx = append(idx, i)
	}

	rows := make([]Row, 0, len(table)-1)
	for _, l := range table[1:] {
		if blank(l.cells) {
			continue
		}
		rows = append(rows, Row{
			Line:      l.number,
			Exercise:  cell(l.cells, idx[0]),
			Equipment: cell(l.cells, idx[1]),
			Muscle:    cell(l.cells, idx[2]),
		})
	}
	return rows, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blank(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// NormalizeEquipment maps spreadsheet equipment labels onto the app's labels.
func NormalizeEquipment(raw string) string {
	switch value := strings.TrimSpace(raw); value {
	case "Bodyweight":
		return string(domain.BodyWeights)
	case "Machines":
		return string(domain.MachineWeights)
	default:
		return value
	}
}

// Record converts a row into a catalog record with import defaults.
func (r Row) Record() domain.ExerciseRecord {
	return domain.ExerciseRecord{
		Name:           r.Exercise,
		Equipment:      domain.EquipmentType(NormalizeEquipment(r.Equipment)),
		PrimaryGroup:   ImportedPrimaryGroup,
		TargetMuscle:   r.Muscle,
		IntensityScore: ImportedIntensity,
		Mechanics:      ImportedMechanics,
		Notes:          ImportedNotes,
	}
}
