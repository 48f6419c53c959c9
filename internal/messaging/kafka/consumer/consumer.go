package consumer

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// HandlerFunc processes one message. Returning an error wrapped with Skip
// commits the message anyway; any other error leaves it uncommitted.
type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

var errSkip = errors.New("skip message")

// Skip marks err as permanent so the message is committed and not retried.
func Skip(err error) error {
	return errors.Join(errSkip, err)
}

func IsSkip(err error) bool {
	return errors.Is(err, errSkip)
}

// Run fetches messages until ctx is cancelled.
func Run(ctx context.Context, name string, reader MessageReader, handle HandlerFunc, logger *zap.Logger) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		}

		if err := handle(ctx, msg); err != nil {
			if !IsSkip(err) {
				log.Error("handle message failed", append(fields, zap.Error(err))...)
				continue
			}
			log.Warn("message skipped", append(fields, zap.Error(err))...)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", append(fields, zap.Error(err))...)
		}
	}
}
