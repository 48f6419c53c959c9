package company

import (
	"errors"

	companyerrors "go-vacation/internal/company/errors"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/dbtx"

	"gorm.io/gorm"
)

const constraintOwnerName = "uq_companies_owner_name"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return companyerrors.ErrCompanyNotFound
	}
	if dbtx.IsUniqueViolation(err, constraintOwnerName) {
		return companyerrors.ErrCompanyAlreadyExists
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Database(err)
}
