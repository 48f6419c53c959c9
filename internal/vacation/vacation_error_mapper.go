package vacation

import (
	"errors"

	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/dbtx"
	vacationerrors "go-vacation/internal/vacation/errors"

	"gorm.io/gorm"
)

const (
	constraintEmployeeStart = "uq_vacations_employee_start"
	constraintEmployeeEnd   = "uq_vacations_employee_end"
	constraintEmployeeRange = "uq_vacations_employee_range"
	constraintNoOverlap     = "ex_vacations_employee_no_overlap"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vacationerrors.ErrVacationNotFound
	}

	switch {
	case dbtx.IsUniqueViolation(err, constraintEmployeeStart),
		dbtx.IsUniqueViolation(err, constraintEmployeeRange):
		return vacationerrors.ErrStartDateTaken
	case dbtx.IsUniqueViolation(err, constraintEmployeeEnd):
		return vacationerrors.ErrEndDateTaken
	case dbtx.IsExclusionViolation(err, constraintNoOverlap):
		return vacationerrors.ErrOverlap
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Database(err)
}
