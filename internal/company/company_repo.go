package company

import (
	"context"
	"database/sql"

	"go-vacation/internal/shared/dbtx"
	"go-vacation/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Update(ctx context.Context, company *Company) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, normalizedName string) (bool, error)
	// ListForUser returns companies the user owns or has joined.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Company, error)

	ClearDepartmentRefs(ctx context.Context, companyID uuid.UUID) error
	DeleteDepartments(ctx context.Context, companyID uuid.UUID) error
	DeleteVacations(ctx context.Context, companyID uuid.UUID) error
	DeleteEmployees(ctx context.Context, companyID uuid.UUID) error
	Delete(ctx context.Context, companyID uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, company *Company) error {
	return r.conn(ctx).Create(company).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	if err := r.conn(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) Update(ctx context.Context, company *Company) error {
	return r.conn(ctx).Save(company).Error
}

func (r *repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Company{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *repository) ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, normalizedName string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Company{}).
		Where("owner_id = ? AND normalized_name = ?", ownerID, normalizedName).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Company, error) {
	var companies []Company
	db := r.conn(ctx)
	joined := db.Session(&gorm.Session{NewDB: true}).
		Table("employees").
		Select("company_id").
		Where("user_id = ? AND has_joined = ?", userID, true)
	err := db.
		Where("owner_id = ?", userID).
		Or("id IN (?)", joined).
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}

func (r *repository) ClearDepartmentRefs(ctx context.Context, companyID uuid.UUID) error {
	return r.conn(ctx).
		Table("employees").
		Scopes(tenant.Scope(companyID)).
		Update("department_id", nil).Error
}

func (r *repository) DeleteDepartments(ctx context.Context, companyID uuid.UUID) error {
	return r.conn(ctx).Exec("DELETE FROM departments WHERE company_id = ?", companyID).Error
}

func (r *repository) DeleteVacations(ctx context.Context, companyID uuid.UUID) error {
	return r.conn(ctx).Exec("DELETE FROM vacations WHERE company_id = ?", companyID).Error
}

func (r *repository) DeleteEmployees(ctx context.Context, companyID uuid.UUID) error {
	return r.conn(ctx).Exec("DELETE FROM employees WHERE company_id = ?", companyID).Error
}

func (r *repository) Delete(ctx context.Context, companyID uuid.UUID) error {
	res := r.conn(ctx).Where("id = ?", companyID).Delete(&Company{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
