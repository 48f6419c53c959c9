package companyerrors

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)

	ErrCompanyAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"you already own a company with this name",
		http.StatusConflict,
	)

	ErrCompanyLimit = apperror.New(
		apperror.CodeLimitReached,
		"you have reached the maximum number of owned companies",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)

	ErrInvalidName = apperror.New(
		apperror.CodeInvalidInput,
		"company name is required",
		http.StatusBadRequest,
	)

	ErrInvalidMaxDays = apperror.New(
		apperror.CodeInvalidInput,
		"max vacation days per year is out of range",
		http.StatusBadRequest,
	)

	ErrInvalidOwner = apperror.New(
		apperror.CodeUnauthorized,
		"invalid user identity",
		http.StatusUnauthorized,
	)
)
