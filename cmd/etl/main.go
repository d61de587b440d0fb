package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/ais-metocean-etl/internal/adapter/csvio"
	"github.com/couchcryptid/ais-metocean-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/ais-metocean-etl/internal/adapter/kafka"
	"github.com/couchcryptid/ais-metocean-etl/internal/adapter/parquet"
	"github.com/couchcryptid/ais-metocean-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/ais-metocean-etl/internal/config"
	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/matchcache"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
	"github.com/couchcryptid/ais-metocean-etl/internal/pipeline"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	manifest, err := config.LoadManifest(cfg.ManifestPath, cfg.DataDir)
	if err != nil {
		logger.Error("failed to load manifest", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeStream:
		err = runStream(ctx, cfg, manifest, logger, metrics)
	default:
		err = runBatch(ctx, cfg, manifest, logger, metrics)
	}
	if err != nil {
		logger.Error("etl failed", "mode", cfg.Mode, "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// runBatch enriches the fact table once and writes every configured sink.
func runBatch(ctx context.Context, cfg *config.Config, m *config.Manifest, logger *slog.Logger, metrics *observability.Metrics) error {
	sinks := []pipeline.RecordSink{csvio.NewWriter(cfg.OutputCSV)}
	if cfg.OutputParquet != "" {
		sinks = append(sinks, parquet.NewWriter(cfg.OutputParquet))
	}
	if cfg.SQLitePath != "" {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer closeWith(logger, "sqlite store", store.Close)
		sinks = append(sinks, store)
	}
	if cfg.KafkaPublish {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer closeWith(logger, "kafka writer", writer.Close)
		sinks = append(sinks, pipeline.NewEventSink(writer, cfg.BatchSize))
	}

	ready := &pipeline.Readiness{}
	job := pipeline.NewJob(m, cleanOptions(cfg), cfg.Workers, sinks, ready, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, job, logger)
	startServer(srv, logger)
	defer shutdownServer(srv, cfg, logger)

	report, err := job.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("batch run finished",
		"run_id", report.RunID,
		"rows", report.Completeness.Rows,
		"duration", report.Duration,
	)
	return nil
}

// runStream enriches AIS reports from the source topic until interrupted.
func runStream(ctx context.Context, cfg *config.Config, m *config.Manifest, logger *slog.Logger, metrics *observability.Metrics) error {
	ready := &pipeline.Readiness{}
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, nil, logger)
	startServer(srv, logger)
	defer shutdownServer(srv, cfg, logger)

	ref, err := pipeline.LoadReference(ctx, m, logger, metrics)
	if err != nil {
		return err
	}

	var matcher domain.Matcher = ref
	if cfg.MatchCacheSize > 0 {
		matcher = matchcache.NewCachedMatcher(ref, cfg.MatchCacheSize, metrics)
		logger.Info("match cache enabled", "size", cfg.MatchCacheSize)
	}

	enricher := pipeline.NewEnricher(matcher, 1, logger, metrics)
	transformer := pipeline.NewTransformer(enricher, uuid.NewString(), logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	defer closeWith(logger, "kafka reader", reader.Close)
	writer := kafkaadapter.NewWriter(cfg, logger)
	defer closeWith(logger, "kafka writer", writer.Close)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
	ready.MarkReady()

	return p.Run(ctx)
}

func cleanOptions(cfg *config.Config) domain.CleanOptions {
	return domain.CleanOptions{
		NavigationalStatuses: cfg.NavigationalStatuses,
		MinSpeedOverGround:   cfg.MinSpeedOverGround,
		SampleVessels:        cfg.SampleVessels,
	}
}

func startServer(srv *httpadapter.Server, logger *slog.Logger) {
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
}

func shutdownServer(srv *httpadapter.Server, cfg *config.Config, logger *slog.Logger) {
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}

func closeWith(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("close error", "component", name, "error", err)
	}
}
