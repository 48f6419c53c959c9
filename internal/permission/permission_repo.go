package permission

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRow is the joined membership of an actor in a company.
type MemberRow struct {
	EmployeeID   uuid.UUID
	Role         EmployeeRole
	DepartmentID *uuid.UUID
}

//go:generate mockgen -source=permission_repo.go -destination=mock/permission_repo_mock.go -package=mock
type Repository interface {
	// FindOwnerEmail returns gorm.ErrRecordNotFound when the company does not exist.
	FindOwnerEmail(ctx context.Context, companyID uuid.UUID) (string, error)
	// FindJoinedMember returns gorm.ErrRecordNotFound when no joined membership matches.
	FindJoinedMember(ctx context.Context, companyID uuid.UUID, normalizedEmail string) (*MemberRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOwnerEmail(ctx context.Context, companyID uuid.UUID) (string, error) {
	var row struct{ OwnerEmail string }
	err := r.db.WithContext(ctx).
		Table("companies").
		Select("owner_email").
		Where("id = ?", companyID).
		Take(&row).Error
	return row.OwnerEmail, err
}

func (r *repository) FindJoinedMember(ctx context.Context, companyID uuid.UUID, normalizedEmail string) (*MemberRow, error) {
	var row MemberRow
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id AS employee_id, role, department_id").
		Where("company_id = ?", companyID).
		Where("normalized_email = ?", normalizedEmail).
		Where("has_joined = ?", true).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
