package audit

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	ListByCompany(ctx context.Context, companyID string, limit int) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByCompany(ctx context.Context, companyID string, limit int) ([]AuditLog, error) {
	var out []AuditLog
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
