package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID       string    `gorm:"not null;uniqueIndex:uq_audit_logs_event_id"`
	EventType     string    `gorm:"not null"`
	AggregateType string    `gorm:"not null"`
	AggregateID   string    `gorm:"not null"`
	CompanyID     string    `gorm:"not null;index"`
	ActorID       string
	RequestID     string
	Payload       []byte `gorm:"type:jsonb;not null"`
	OccurredAt    time.Time
	CreatedAt     time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
