// Package audit persists lifecycle events consumed from kafka.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go-vacation/internal/events"
	"go-vacation/internal/messaging/kafka/consumer"
	"go-vacation/internal/messaging/kafka/producer"
	"go-vacation/internal/shared/dbtx"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const uniqueEventConstraint = "uq_audit_logs_event_id"

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{repo: repo, logger: l.Named("audit.handler")}
}

// Handle stores one lifecycle message. Undecodable payloads are skipped.
func (h *Handler) Handle(ctx context.Context, msg kafkago.Message) error {
	entry, err := decode(msg)
	if err != nil {
		return consumer.Skip(err)
	}

	if err := h.repo.Create(ctx, entry); err != nil {
		if dbtx.IsUniqueViolation(err, uniqueEventConstraint) {
			h.logger.Debug("audit entry already recorded", zap.String("event_id", entry.EventID))
			return nil
		}
		return err
	}

	h.logger.Info("audit entry recorded",
		zap.String("event_id", entry.EventID),
		zap.String("event_type", entry.EventType),
		zap.String("company_id", entry.CompanyID),
	)
	return nil
}

func decode(msg kafkago.Message) (*AuditLog, error) {
	entry := &AuditLog{
		EventID:   header(msg, producer.HeaderEventID),
		RequestID: header(msg, producer.HeaderRequestID),
		Payload:   msg.Value,
	}
	if entry.EventID == "" {
		entry.EventID = msg.Topic + "/" + strconv.Itoa(msg.Partition) + "/" + strconv.FormatInt(msg.Offset, 10)
	}

	switch msg.Topic {
	case events.VacationLifecycleTopic:
		var e events.VacationLifecycleEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return nil, fmt.Errorf("decode vacation event: %w", err)
		}
		entry.EventType = e.EventType
		entry.AggregateType = "vacation"
		entry.AggregateID = e.VacationID
		entry.CompanyID = e.CompanyID
		entry.ActorID = e.ActorID
		entry.OccurredAt = e.OccurredAt
		if entry.RequestID == "" {
			entry.RequestID = e.RequestID
		}
	case events.EmployeeLifecycleTopic:
		var e events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return nil, fmt.Errorf("decode employee event: %w", err)
		}
		entry.EventType = e.EventType
		entry.AggregateType = "employee"
		entry.AggregateID = e.EmployeeID
		entry.CompanyID = e.CompanyID
		entry.ActorID = e.ActorID
		entry.OccurredAt = e.OccurredAt
		if entry.RequestID == "" {
			entry.RequestID = e.RequestID
		}
	default:
		return nil, fmt.Errorf("unexpected topic %q", msg.Topic)
	}

	if entry.EventType == "" || entry.CompanyID == "" {
		return nil, fmt.Errorf("event missing type or company")
	}
	return entry, nil
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
