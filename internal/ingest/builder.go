package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Store receives the built catalog.
type Store interface {
	Save(ctx context.Context, records []domain.ExerciseRecord) error
}

// Rejected describes a sheet row left out of the catalog.
type Rejected struct {
	Line   int
	Reason string
}

// Report summarises a build.
type Report struct {
	Seeded   int
	Imported int
	Rejected []Rejected
}

// Total is the number of records written.
func (r Report) Total() int { return r.Seeded + r.Imported }

// Builder merges curated records with sheet rows into a single catalog.
type Builder struct {
	store  Store
	logger logrus.FieldLogger
}

// NewBuilder constructs a Builder writing to store.
func NewBuilder(store Store, logger logrus.FieldLogger) *Builder {
	return &Builder{store: store, logger: logger}
}

// Merge returns seed followed by every valid row. Invalid rows are reported, not fatal.
func Merge(seed []domain.ExerciseRecord, rows []Row) ([]domain.ExerciseRecord, Report) {
	report := Report{}
	out := make([]domain.ExerciseRecord, 0, len(seed)+len(rows))
	for _, r := range seed {
		out = append(out, r.Clone())
		report.Seeded++
	}
	for _, row := range rows {
		rec := row.Record()
		if err := rec.Validate(); err != nil {
			report.Rejected = append(report.Rejected, Rejected{Line: row.Line, Reason: err.Error()})
			continue
		}
		out = append(out, rec)
		report.Imported++
	}
	return out, report
}

// Build reads the sheet at path (.csv or .xlsx), merges it with seed and saves
// the result. A missing sheet path aborts the build.
func (b *Builder) Build(ctx context.Context, seed []domain.ExerciseRecord, path, sheet string) (Report, error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return Report{}, err
	}

	records, report := Merge(seed, rows)
	for _, rej := range report.Rejected {
		b.logger.WithFields(logrus.Fields{"line": rej.Line, "reason": rej.Reason}).Warn("skipping sheet row")
	}
	if err := b.store.Save(ctx, records); err != nil {
		return report, errors.Wrap(err, "save catalog")
	}

	b.logger.WithFields(logrus.Fields{
		"seeded":   report.Seeded,
		"imported": report.Imported,
		"rejected": len(report.Rejected),
	}).Infof("conglomerated %d exercises", report.Total())
	return report, nil
}

func readSheet(path, sheet string) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadWorkbook(path, sheet)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}
