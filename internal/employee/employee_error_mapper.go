package employee

import (
	"errors"

	employeeerrors "go-vacation/internal/employee/errors"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/dbtx"

	"gorm.io/gorm"
)

const constraintCompanyEmail = "uq_employees_company_email"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	if dbtx.IsUniqueViolation(err, constraintCompanyEmail) {
		return employeeerrors.ErrEmployeeAlreadyExists
	}
	if dbtx.IsForeignKeyViolation(err) {
		return employeeerrors.ErrDepartmentNotFound
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Database(err)
}
