package app

import (
	"context"
	"fmt"

	"go-vacation/internal/cleanup"
	"go-vacation/internal/config"
	"go-vacation/internal/messaging/kafka"
	"go-vacation/internal/messaging/kafka/producer"
	"go-vacation/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker publishes the outbox and runs the cleanup job until SIGINT/SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	publisher := producer.NewPublisher(kafka.NewOutboxRepository(sqlDB), kafkaWriter, producer.Options{}, logger)
	cleanupJob := cleanup.NewJob(cleanup.NewRepository(gormDB), cfg.Cleanup, logger)

	ctx, stop := signalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		cleanupJob.Run(gctx)
		return nil
	})

	<-ctx.Done()
	logger.Info("worker shutting down")
	return ignoreCanceled(g.Wait())
}

func ignoreCanceled(err error) error {
	if err == context.Canceled {
		return nil
	}
	return err
}
