package department

import (
	"errors"

	departmenterrors "go-vacation/internal/department/errors"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/dbtx"

	"gorm.io/gorm"
)

const constraintCompanyName = "uq_departments_company_name"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return departmenterrors.ErrDepartmentNotFound
	}
	if dbtx.IsUniqueViolation(err, constraintCompanyName) {
		return departmenterrors.ErrDepartmentExists
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Database(err)
}
