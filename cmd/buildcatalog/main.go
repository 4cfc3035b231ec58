package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/config"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/events"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/ingest"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Load()
	logger := logging.New(cfg.Environment, "buildcatalog")

	var (
		out     string
		sheet   string
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "buildcatalog [sheet.csv|sheet.xlsx]",
		Short: "Merge the curated chest exercises with a spreadsheet into the JSON catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.IngestCSVPath
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), cfg, logger, path, out, sheet, publish)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&out, "out", "o", cfg.JSONPath, "JSON catalog to write")
	cmd.Flags().StringVar(&sheet, "sheet", cfg.IngestSheet, "worksheet to read from .xlsx inputs (first sheet when empty)")
	cmd.Flags().BoolVar(&publish, "publish", false, "also publish exercise.upserted events to the catalog topic")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, path, out, sheet string, publish bool) error {
	store := catalog.NewDocumentStore(out)
	report, err := ingest.NewBuilder(store, logger).Build(ctx, catalog.SeedRecords(), path, sheet)
	if err != nil {
		return err
	}
	fmt.Printf("Success! Conglomerated %d exercises into %s\n", report.Total(), out)

	if !publish {
		return nil
	}
	if len(cfg.ConsumerTopics) == 0 {
		return fmt.Errorf("no catalog topic configured")
	}
	records, err := store.Load(ctx)
	if err != nil {
		return err
	}
	writer := events.NewKafkaWriter(cfg.KafkaBrokers, cfg.ConsumerTopics[0])
	defer writer.Close()
	if err := events.NewPublisher(writer).PublishUpserted(ctx, records); err != nil {
		return err
	}
	logger.WithField("topic", cfg.ConsumerTopics[0]).Infof("published %d exercise events", len(records))
	return nil
}
