package app

import (
	"fmt"

	"go-vacation/internal/audit"
	"go-vacation/internal/config"
	"go-vacation/internal/events"
	"go-vacation/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const auditConsumerGroup = "go-vacation-audit"

// auditTopics maps the consumer name used in logs to its topic.
var auditTopics = map[string]string{
	"vacation_lifecycle": events.VacationLifecycleTopic,
	"employee_lifecycle": events.EmployeeLifecycleTopic,
}

// RunConsumer records vacation and employee lifecycle events into audit_logs.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	auditHandler := audit.NewHandler(audit.NewRepository(gormDB), logger)

	ctx, stop := signalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for name, topic := range auditTopics {
		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{cfg.KafkaBroker},
			Topic:          topic,
			GroupID:        auditConsumerGroup,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
		defer reader.Close()

		name := name
		g.Go(func() error {
			consumer.Run(gctx, name, reader, auditHandler.Handle, logger)
			return nil
		})
	}

	<-ctx.Done()
	logger.Info("consumer shutting down")
	return ignoreCanceled(g.Wait())
}
