package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"uscite/internal/cli"
	applog "uscite/internal/log"
	"uscite/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	amqpClient := cli.InitAMQP(logger, cfg)

	exportWorker := worker.NewExportWorker(repo, cfg.ExportPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Write an initial snapshot so the export exists before the first
	// event or tick arrives.
	if err := exportWorker.WriteSnapshot(ctx); err != nil {
		logger.Error("Failed to write initial snapshot", applog.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			logger.Info("Consuming record events",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			err := amqpClient.ConsumeRecordEvents(ctx, exportWorker.HandleEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP disabled, running on the export interval only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := exportWorker.WriteSnapshot(ctx); err != nil {
					logger.Error("Periodic snapshot failed", applog.FieldError, err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	logger.Info("Export worker started",
		"export_path", cfg.ExportPath, "interval", cfg.ExportInterval.String())

	err := g.Wait()

	if amqpClient != nil {
		if closeErr := amqpClient.Close(); closeErr != nil {
			logger.Error("Failed to close AMQP client", applog.FieldError, closeErr)
		}
	}
	if closeErr := repo.Close(); closeErr != nil {
		logger.Error("Failed to close repository", applog.FieldError, closeErr)
	}

	if err != nil {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
