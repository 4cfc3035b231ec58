package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/api"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/auth"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/cache"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/config"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/logging"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/navigation"
	httptransport "github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/transport/http"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.New("", "exercise-api").WithError(err).Fatal("load .env")
	}
	cfg := config.Load()
	logger := logging.New(cfg.Environment, "exercise-api")
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	backend, err := catalog.Open(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open catalog")
	}
	defer backend.Close(context.Background())
	logger.WithField("source", backend.Kind).Info("catalog source ready")

	source := backend.Source
	var invalidator cache.Invalidator = cache.NoopInvalidator{}
	if cfg.CacheTTL > 0 {
		cached := cache.NewCachedSource(source, cfg.CacheTTL)
		source, invalidator = cached, cached
		logger.WithField("ttl", cfg.CacheTTL).Info("catalog cache enabled")
	}

	handler := api.NewHandler(domain.NewService(source), navigation.DefaultMenu(),
		api.WithInvalidator(invalidator),
		api.WithDefaultTopK(cfg.DefaultTopK),
		api.WithLogger(logger),
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	middleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, auth.PublicPaths("/healthz", "/metrics"))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: 2 * cfg.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}, httptransport.Chain(mux,
		httptransport.CORS("http://localhost:5173"),
		httptransport.Logging(logger),
		middleware.Wrap,
	))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("address", cfg.HTTPAddress).Info("exercise api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	}
}
