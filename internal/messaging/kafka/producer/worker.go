package producer

import (
	"context"
	"time"

	"go-vacation/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 3 * time.Second
)

type Options struct {
	BatchSize    int
	PollInterval time.Duration
}

// Publisher drains the outbox into kafka.
type Publisher struct {
	repo   kafka.OutboxRepository
	writer MessageWriter
	opts   Options
	logger *zap.Logger
}

func NewPublisher(repo kafka.OutboxRepository, writer MessageWriter, opts Options, logger *zap.Logger) *Publisher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Publisher{repo: repo, writer: writer, opts: opts, logger: logger.Named("kafka.producer")}
}

// Run publishes a batch every poll interval until ctx is cancelled.
// A full batch is followed immediately by the next one.
func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("outbox publisher started", zap.Duration("poll_interval", p.opts.PollInterval))

	timer := time.NewTimer(p.opts.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox publisher stopped")
			return
		case <-timer.C:
		}

		next := p.opts.PollInterval
		claimed, _, err := p.Flush(ctx)
		if err != nil {
			p.logger.Error("process outbox events failed", zap.Error(err))
		} else if claimed == p.opts.BatchSize {
			next = 0
		}
		timer.Reset(next)
	}
}

// Flush publishes one batch. It returns how many events were claimed and how many were sent.
func (p *Publisher) Flush(ctx context.Context) (claimed, sent int, err error) {
	batch, err := p.repo.ListPending(ctx, p.opts.BatchSize)
	if err != nil {
		return 0, 0, err
	}
	if len(batch) == 0 {
		return 0, 0, nil
	}

	p.logger.Debug("publishing outbox batch", zap.Int("count", len(batch)))

	for _, event := range batch {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		}

		if err := publishEvent(ctx, p.writer, event); err != nil {
			p.logger.Warn("publish outbox event failed",
				append(fields, zap.Int("retry_count", event.RetryCount), zap.Error(err))...)
			if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				p.logger.Error("mark outbox failed failed", append(fields, zap.Error(markErr))...)
			}
			if event.RetryCount+1 >= kafka.MaxOutboxAttempts {
				p.logger.Error("outbox event exhausted its attempts", fields...)
			}
			continue
		}

		if err := p.repo.MarkSent(ctx, event.ID); err != nil {
			p.logger.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
			continue
		}
		sent++
	}

	return len(batch), sent, nil
}
