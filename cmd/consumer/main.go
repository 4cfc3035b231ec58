package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/auth"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/cache"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/config"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/consumer"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.New("", "catalog-consumer").WithError(err).Fatal("load .env")
	}
	cfg := config.Load()
	logger := logging.New(cfg.Environment, "catalog-consumer")
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := catalog.Open(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open catalog")
	}
	defer backend.Close(context.Background())
	if backend.Writer == nil {
		logger.WithField("source", backend.Kind).Fatal("catalog source is read-only; use json, memory or mongo")
	}

	invalidator := buildInvalidator(cfg, logger)
	handler := consumer.NewCatalogHandler(backend.Writer, invalidator, logger)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}
	go func() {
		logger.WithField("address", cfg.MetricsAddress).Info("consumer metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("metrics server error")
		}
	}()

	var wg sync.WaitGroup
	for _, topic := range cfg.ConsumerTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.KafkaBrokers,
			GroupID:        cfg.ConsumerGroup,
			Topic:          topic,
			MinBytes:       1e3,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		})
		topicLogger := logger.WithField("topic", topic)
		proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(topicLogger))

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer reader.Close()
			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				topicLogger.WithError(err).Error("consumer stopped")
			}
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	logger.Info("catalog consumer shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("metrics shutdown error")
	}

	wg.Wait()
}

// buildInvalidator targets the API's invalidation endpoint when one is
// configured. Without a provisioned token each call signs a short-lived one.
func buildInvalidator(cfg config.Config, logger logrus.FieldLogger) cache.Invalidator {
	if cfg.CacheInvalidationURL == "" {
		return cache.NoopInvalidator{}
	}
	token := cache.StaticToken(cfg.CacheInvalidationToken)
	if cfg.CacheInvalidationToken == "" {
		signer := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
		token = func() (string, error) {
			return auth.Issue(signer, "catalog-consumer", []string{auth.ScopeCatalogWrite}, time.Minute)
		}
	}
	logger.WithField("url", cfg.CacheInvalidationURL).Info("cache invalidator enabled")
	return cache.NewRemoteInvalidator(cfg.CacheInvalidationURL, token, cfg.HTTPTimeout)
}
