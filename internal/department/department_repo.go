package department

import (
	"context"
	"database/sql"

	"go-vacation/internal/permission"
	"go-vacation/internal/shared/dbtx"
	"go-vacation/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// LockMembership serializes membership changes of the company's departments
	// until the transaction ends.
	LockMembership(ctx context.Context, companyID uuid.UUID) error
	CompanyExists(ctx context.Context, companyID uuid.UUID) (bool, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	ExistsByNormalizedName(ctx context.Context, companyID uuid.UUID, normalizedName string) (bool, error)
	Create(ctx context.Context, dept *Department) error
	FindAllByCompany(ctx context.Context, companyID uuid.UUID) ([]Department, error)
	FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, dept *Department) error
	// CountBoundMembers counts members of departmentID (any department when nil)
	// whose role requires a department.
	CountBoundMembers(ctx context.Context, companyID uuid.UUID, departmentID *uuid.UUID) (int64, error)
	// ClearMembers nulls the department reference of members of departmentID
	// (every department when nil).
	ClearMembers(ctx context.Context, companyID uuid.UUID, departmentID *uuid.UUID) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	DeleteAll(ctx context.Context, companyID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(r.db, r.tx).WithContext(ctx)
}

func (r *repository) LockMembership(ctx context.Context, companyID uuid.UUID) error {
	return dbtx.Lock(ctx, dbtx.Bind(r.db, r.tx), dbtx.DepartmentsKey(companyID.String()))
}

func (r *repository) CompanyExists(ctx context.Context, companyID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("companies").
		Where("id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Department{}).
		Scopes(tenant.Scope(companyID)).
		Count(&count).Error
	return count, err
}

func (r *repository) ExistsByNormalizedName(ctx context.Context, companyID uuid.UUID, normalizedName string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Department{}).
		Scopes(tenant.Scope(companyID)).
		Where("normalized_name = ?", normalizedName).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return r.conn(ctx).Create(dept).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID uuid.UUID) ([]Department, error) {
	var depts []Department
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*Department, error) {
	var dept Department
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *repository) Update(ctx context.Context, dept *Department) error {
	return r.conn(ctx).Save(dept).Error
}

func (r *repository) members(ctx context.Context, companyID uuid.UUID, departmentID *uuid.UUID) *gorm.DB {
	q := r.conn(ctx).Table("employees").Scopes(tenant.Scope(companyID))
	if departmentID != nil {
		return q.Where("department_id = ?", *departmentID)
	}
	return q.Where("department_id IS NOT NULL")
}

func (r *repository) CountBoundMembers(ctx context.Context, companyID uuid.UUID, departmentID *uuid.UUID) (int64, error) {
	var count int64
	err := r.members(ctx, companyID, departmentID).
		Where("role IN ?", permission.DepartmentBoundRoles()).
		Count(&count).Error
	return count, err
}

func (r *repository) ClearMembers(ctx context.Context, companyID uuid.UUID, departmentID *uuid.UUID) error {
	return r.members(ctx, companyID, departmentID).
		Update("department_id", nil).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&Department{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context, companyID uuid.UUID) (int64, error) {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Department{})
	return res.RowsAffected, res.Error
}
