package employeeerrors

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrInvalidInvite = apperror.New(
		apperror.CodeNotFound,
		"invite link is invalid",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists in the company",
		http.StatusConflict,
	)
	ErrEmployeeLimit = apperror.New(
		apperror.CodeLimitReached,
		"employee limit reached for this company",
		http.StatusUnprocessableEntity,
	)
	ErrJoinLimit = apperror.New(
		apperror.CodeLimitReached,
		"you have joined the maximum number of companies",
		http.StatusUnprocessableEntity,
	)
	ErrOwnerCannotJoin = apperror.New(
		apperror.CodeInvalidState,
		"the company owner cannot join their own company",
		http.StatusBadRequest,
	)
	ErrNotInvited = apperror.New(
		apperror.CodeForbidden,
		"no employee record exists for your email in this company",
		http.StatusForbidden,
	)
	ErrAlreadyJoined = apperror.New(
		apperror.CodeConflict,
		"you have already joined this company",
		http.StatusConflict,
	)
	ErrCannotManage = apperror.New(
		apperror.CodeForbidden,
		"cannot manage employee of equal or higher permission",
		http.StatusForbidden,
	)
	ErrCannotAssignRole = apperror.New(
		apperror.CodeForbidden,
		"cannot assign a role equal to or above your own permission",
		http.StatusForbidden,
	)
	ErrSupervisorNeedsDepartment = apperror.New(
		apperror.CodeInvalidState,
		"cannot assign Supervisor without a department",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be Employee, Supervisor or Admin",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"invalid email format",
		http.StatusBadRequest,
	)
)
