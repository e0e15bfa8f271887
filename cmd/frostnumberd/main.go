// Command frostnumberd runs the frost-number model as a service: forcing
// records consumed from Kafka drive the model one step per record, and each
// step's frost numbers are published to the sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/frost-number-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/frost-number-service/internal/adapter/kafka"
	"github.com/couchcryptid/frost-number-service/internal/config"
	"github.com/couchcryptid/frost-number-service/internal/model"
	"github.com/couchcryptid/frost-number-service/internal/observability"
	"github.com/couchcryptid/frost-number-service/internal/runner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	mdl := model.New()
	handle, err := mdl.Configure(cfg.Model)
	if err != nil {
		logger.Error("failed to configure model", "error", err)
		os.Exit(1)
	}
	if err := mdl.Initialize(handle); err != nil {
		logger.Error("failed to initialize model", "error", err)
		os.Exit(1)
	}
	logger.Info("model initialized",
		"t_air_min", cfg.Model.TAirMin,
		"t_air_max", cfg.Model.TAirMax,
		"t_surface_offset", cfg.Model.TSurfaceOffset,
		"days_per_year", cfg.Model.DaysPerYear,
		"stefan_ratio", cfg.Model.StefanRatio,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	r := runner.New(reader, mdl, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, r, r, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the stepping loop.
	go func() {
		if err := r.Run(ctx); err != nil {
			logger.Error("runner error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := mdl.Finalize(); err != nil {
		logger.Error("model finalize error", "error", err)
	}

	logger.Info("shutdown complete", "model_time", mdl.CurrentTime())
}
