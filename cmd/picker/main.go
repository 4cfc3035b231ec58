package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/config"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/logging"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/navigation"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/picker"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.New("", "picker").WithError(err).Fatal("load .env")
	}
	cfg := config.Load()
	logger := logging.New(cfg.Environment, "picker")
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := catalog.Open(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open catalog")
	}
	defer backend.Close(context.Background())

	nav := navigation.NewNavigator(navigation.DefaultMenu())
	session := picker.NewSession(nav, domain.NewService(backend.Source), cfg.DefaultTopK, os.Stdin, os.Stdout)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("picker stopped")
		backend.Close(context.Background())
		os.Exit(1)
	}
}
