package employee

import (
	"context"
	"database/sql"

	"go-vacation/internal/shared/dbtx"
	"go-vacation/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockDepartments(ctx context.Context, companyID uuid.UUID) error
	CompanyExists(ctx context.Context, companyID uuid.UUID) (bool, error)
	FindCompanyByInviteToken(ctx context.Context, token string) (*CompanyRef, error)
	DepartmentExists(ctx context.Context, companyID, departmentID uuid.UUID) (bool, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountJoinedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Create(ctx context.Context, e *Employee) error
	FindAllByCompany(ctx context.Context, companyID uuid.UUID) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*Employee, error)
	FindByNormalizedEmail(ctx context.Context, companyID uuid.UUID, normalizedEmail string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	// Delete removes the employees and their vacations.
	Delete(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) error
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

func (r *repository) LockDepartments(ctx context.Context, companyID uuid.UUID) error {
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

func (r *repository) FindCompanyByInviteToken(ctx context.Context, token string) (*CompanyRef, error) {
	var c CompanyRef
	err := r.conn(ctx).
		Table("companies").
		Select("id, owner_id, owner_email").
		Where("invite_token = ?", token).
		Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) DepartmentExists(ctx context.Context, companyID, departmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("departments").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Count(&count).Error
	return count, err
}

func (r *repository) CountJoinedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("user_id = ?", userID).
		Where("has_joined = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID uuid.UUID) ([]Employee, error) {
	var out []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("normalized_email ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByNormalizedEmail(ctx context.Context, companyID uuid.UUID, normalizedEmail string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("normalized_email = ?", normalizedEmail).
		Take(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.conn(ctx)
	if err := db.Exec("DELETE FROM vacations WHERE employee_id IN ?", ids).Error; err != nil {
		return err
	}
	return db.Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id IN ?", ids).Error
}
