package vacation

import (
	"context"
	"database/sql"

	"go-vacation/internal/shared/dbtx"
	"go-vacation/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=vacation_repo.go -destination=mock/vacation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockEmployee(ctx context.Context, employeeID uuid.UUID) error
	FindCompany(ctx context.Context, companyID uuid.UUID) (*CompanyPolicy, error)
	FindEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*EmployeeRef, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Vacation, error)
	ListForReview(ctx context.Context, companyID uuid.UUID, status string, departmentID *uuid.UUID) ([]Vacation, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Vacation, error)
	Create(ctx context.Context, v *Vacation) error
	UpdateStatus(ctx context.Context, v *Vacation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(r.db, r.tx).WithContext(ctx)
}

func (r *repository) LockEmployee(ctx context.Context, employeeID uuid.UUID) error {
	return dbtx.Lock(ctx, dbtx.Bind(r.db, r.tx), "vacation:"+employeeID.String())
}

func (r *repository) FindCompany(ctx context.Context, companyID uuid.UUID) (*CompanyPolicy, error) {
	var c CompanyPolicy
	err := r.conn(ctx).
		Table("companies").
		Select("id, max_vacation_days_per_year").
		Where("id = ?", companyID).
		Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.conn(ctx).
		Table("employees").
		Select("id, company_id, user_id, has_joined, department_id").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", employeeID).
		Take(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Vacation, error) {
	var out []Vacation
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListForReview(ctx context.Context, companyID uuid.UUID, status string, departmentID *uuid.UUID) ([]Vacation, error) {
	q := r.conn(ctx).
		Model(&Vacation{}).
		Where("vacations.company_id = ?", companyID)
	if status != "" {
		q = q.Where("vacations.status = ?", status)
	}
	if departmentID != nil {
		q = q.Joins("JOIN employees ON employees.id = vacations.employee_id").
			Where("employees.department_id = ?", *departmentID)
	}

	var out []Vacation
	err := q.Order("vacations.start_date ASC").Find(&out).Error
	return out, err
}

func (r *repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*Vacation, error) {
	var v Vacation
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) Create(ctx context.Context, v *Vacation) error {
	return r.conn(ctx).Create(v).Error
}

func (r *repository) UpdateStatus(ctx context.Context, v *Vacation) error {
	return r.conn(ctx).
		Model(&Vacation{}).
		Where("id = ?", v.ID).
		Updates(map[string]any{
			"status":     v.Status,
			"decided_by": v.DecidedBy,
			"decided_at": v.DecidedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&Vacation{}, "id = ?", id).Error
}
