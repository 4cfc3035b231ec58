package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/config"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/logging"
)

// provisioner is implemented by every relational backend.
type provisioner interface {
	Provision(ctx context.Context) error
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Load()
	logger := logging.New(cfg.Environment, "provisiondb")

	dialect := cfg.CatalogSource
	if dialect != config.SourceMySQL && dialect != config.SourcePostgres {
		dialect = config.SourceSQLite
	}

	cmd := &cobra.Command{
		Use:   "provisiondb",
		Short: "Create the relational catalog schema and seed its default rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch dialect {
			case config.SourceSQLite, config.SourceMySQL, config.SourcePostgres:
			default:
				return fmt.Errorf("unsupported dialect %q", dialect)
			}
			cfg.CatalogSource = dialect

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			backend, err := catalog.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer backend.Close(context.Background())

			p, ok := backend.Source.(provisioner)
			if !ok {
				return fmt.Errorf("catalog source %q cannot be provisioned", backend.Kind)
			}
			if err := p.Provision(ctx); err != nil {
				return err
			}
			logger.WithField("dialect", dialect).Info("schema provisioned")
			fmt.Println("Database built and populated successfully.")
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&dialect, "dialect", dialect, "sqlite, mysql or postgres")
	cmd.Flags().StringVar(&cfg.SQLDSN, "dsn", cfg.SQLDSN, "sqlite file or mysql DSN")
	cmd.Flags().StringVar(&cfg.PostgresURL, "postgres-url", cfg.PostgresURL, "postgres connection URL")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
