package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jensholdgaard/auction-datagen/internal/clock"
	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/health"
	"github.com/jensholdgaard/auction-datagen/internal/leader"
	"github.com/jensholdgaard/auction-datagen/internal/notify"
	"github.com/jensholdgaard/auction-datagen/internal/pipeline"
	"github.com/jensholdgaard/auction-datagen/internal/store"
	"github.com/jensholdgaard/auction-datagen/internal/telemetry"

	// Register store drivers so they are available via store.Open.
	_ "github.com/jensholdgaard/auction-datagen/internal/store/postgres"
	_ "github.com/jensholdgaard/auction-datagen/internal/store/sqlfile"
	_ "github.com/jensholdgaard/auction-datagen/internal/store/sqlite"
)

const (
	phaseWriting = "writing"
	phaseWritten = "written"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	dryRun := flag.Bool("dry-run", false, "generate the dataset without writing it")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := run(*configPath, *dryRun); err != nil {
		slog.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string, dryRun bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = version
	}

	tp, err := telemetry.Setup(ctx, cfg.Telemetry, attribute.Int64("auctiongen.seed", cfg.Simulation.Seed))
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.Real{}
	healthHandler := health.NewHandler(clk)

	if cfg.Server.Port > 0 {
		httpServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           healthHandler.Mux(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.InfoContext(ctx, "starting health server", slog.Int("port", cfg.Server.Port))
			if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
				logger.ErrorContext(ctx, "health server error", slog.Any("error", listenErr))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", slog.Any("error", err))
			}
		}()
	}

	// generate is the work only the leader runs.
	generate := func(ctx context.Context) error {
		started := clk.Now()

		ds, err := pipeline.Run(ctx, cfg.Simulation, pipeline.Deps{
			Logger:         logger,
			TracerProvider: tp.TracerProvider,
			MeterProvider:  tp.MeterProvider,
			Phases:         healthHandler,
		})
		if err != nil {
			return fmt.Errorf("generating dataset: %w", err)
		}

		if dryRun {
			logger.InfoContext(ctx, "dry run, dataset not written", slog.String("run_id", ds.RunID.String()))
			healthHandler.SetReady(true)
			return nil
		}

		healthHandler.SetPhase(phaseWriting)
		sinks, err := store.Open(ctx, cfg.Output, clk)
		if err != nil {
			return fmt.Errorf("opening store (driver=%s): %w", cfg.Output.Driver, err)
		}
		defer sinks.Closer.Close()
		healthHandler.AddChecker(health.Checker{Name: "output", Check: sinks.Ping})

		written, err := write(ctx, sinks.Sink, cfg.Output.Driver, logger, ds)
		if err != nil {
			return err
		}
		healthHandler.SetPhase(phaseWritten)
		healthHandler.SetReady(true)

		if written && cfg.Notify.Discord.Enabled() {
			notifier, err := notify.New(cfg.Notify.Discord, logger, tp.TracerProvider)
			if err == nil {
				err = notifier.RunSummary(ctx, ds, cfg.Output.Driver, clock.Since(clk, started))
			}
			if err != nil {
				logger.WarnContext(ctx, "run summary not sent", slog.Any("error", err))
			}
		}
		return nil
	}

	if cfg.LeaderElection.Enabled {
		logger.InfoContext(ctx, "leader election enabled, waiting for leadership...")
	}
	if err := leader.Do(ctx, cfg.LeaderElection, logger, generate); err != nil {
		if errors.Is(err, leader.ErrNotLeader) && ctx.Err() != nil {
			logger.Info("shut down before acquiring leadership")
			return nil
		}
		return err
	}

	logger.Info("done", slog.String("version", version))
	return nil
}

// write persists ds through sink. It reports false when the sink already
// held the run.
func write(ctx context.Context, sink store.Sink, driver string, logger *slog.Logger, ds *dataset.Dataset) (bool, error) {
	err := sink.Write(ctx, ds)
	if errors.Is(err, store.ErrRunExists) {
		logger.InfoContext(ctx, "run already written, skipping", slog.String("run_id", ds.RunID.String()))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("writing dataset (driver=%s): %w", driver, err)
	}

	logger.InfoContext(ctx, "dataset written",
		slog.String("driver", driver),
		slog.String("run_id", ds.RunID.String()),
	)
	return true, nil
}
