package vacationerrors

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeUnauthorized,
		"invalid user identity",
		http.StatusUnauthorized,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be APPROVED or DENIED",
		http.StatusBadRequest,
	)

	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end date before start date",
		http.StatusBadRequest,
	)
	ErrStartNotInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"start date cannot be today or in the past",
		http.StatusBadRequest,
	)
	ErrTooFarInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"dates too far in the future",
		http.StatusBadRequest,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrStartDateTaken = apperror.New(
		apperror.CodeConflict,
		"start date is already taken by another vacation",
		http.StatusConflict,
	)
	ErrEndDateTaken = apperror.New(
		apperror.CodeConflict,
		"end date is already taken by another vacation",
		http.StatusConflict,
	)
	ErrNotEnoughDays = apperror.New(
		apperror.CodeLimitReached,
		"not enough vacation days left",
		http.StatusUnprocessableEntity,
	)
	ErrPendingLimit = apperror.New(
		apperror.CodeLimitReached,
		"pending limit hit",
		http.StatusUnprocessableEntity,
	)
	ErrOverlap = apperror.New(
		apperror.CodeConflict,
		"vacation overlaps an existing vacation",
		http.StatusConflict,
	)

	ErrVacationNotFound = apperror.New(
		apperror.CodeNotFound,
		"vacation not found",
		http.StatusNotFound,
	)
	ErrVacationDenied = apperror.New(
		apperror.CodeInvalidState,
		"denied vacations cannot be deleted",
		http.StatusBadRequest,
	)
	ErrVacationStarted = apperror.New(
		apperror.CodeInvalidState,
		"vacation has already started",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"only pending vacations can be approved or denied",
		http.StatusBadRequest,
	)
	ErrReviewForbidden = apperror.New(
		apperror.CodeForbidden,
		"insufficient permission to review vacations",
		http.StatusForbidden,
	)
	ErrOutsideDepartment = apperror.New(
		apperror.CodeForbidden,
		"vacation belongs to an employee outside your department",
		http.StatusForbidden,
	)
)
