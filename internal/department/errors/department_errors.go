package departmenterrors

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrDepartmentExists = apperror.New(
		apperror.CodeConflict,
		"a department with this name already exists",
		http.StatusConflict,
	)
	ErrDepartmentLimit = apperror.New(
		apperror.CodeLimitReached,
		"department limit reached for this company",
		http.StatusUnprocessableEntity,
	)
	ErrDepartmentInUse = apperror.New(
		apperror.CodeInvalidState,
		"department has members whose role requires a department",
		http.StatusConflict,
	)
	ErrInvalidName = apperror.New(
		apperror.CodeInvalidInput,
		"department name is required",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
)
