package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/crisis-data-service/internal/adapter/csvsource"
	"github.com/couchcryptid/crisis-data-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/crisis-data-service/internal/adapter/kafka"
	"github.com/couchcryptid/crisis-data-service/internal/config"
	"github.com/couchcryptid/crisis-data-service/internal/observability"
	"github.com/couchcryptid/crisis-data-service/internal/pipeline"
	"github.com/couchcryptid/crisis-data-service/internal/view"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := csvsource.New(csvsource.Paths{
		Social:   cfg.SocialCSV,
		Sensor:   cfg.SensorCSV,
		Facility: cfg.FacilityCSV,
	}, logger)

	// Export of normalized records is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	var loader pipeline.BatchLoader
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka export enabled", "topic", cfg.KafkaExportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka export disabled")
	}

	p := pipeline.New(source, loader, logger, metrics, cfg.BatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The base tables are loaded once, before anything is served.
	store, err := p.Run(ctx)
	if err != nil {
		logger.Error("load failed", "error", err)
		closeWriter(writer, logger)
		os.Exit(1)
	}

	var views view.Builder = view.NewAssembler(store, logger, metrics)
	if cfg.ViewCacheTTL > 0 {
		views = view.NewCachedBuilder(views, cfg.ViewCacheTTL, metrics)
		logger.Info("view cache enabled", "ttl", cfg.ViewCacheTTL)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, views, store, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeWriter(writer, logger)

	logger.Info("shutdown complete")
}

func closeWriter(w *kafkaadapter.Writer, logger *slog.Logger) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
}
