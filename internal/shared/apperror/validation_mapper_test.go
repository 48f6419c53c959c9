package apperror_test

import (
	"errors"
	"testing"

	"go-vacation/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Status    string `json:"status" binding:"omitempty,oneof=APPROVED DENIED"`
}

func TestMapValidationError(t *testing.T) {
	apperror.Init()

	tests := []struct {
		name    string
		req     sampleRequest
		wantMsg string
	}{
		{"required", sampleRequest{}, "Start Date is required"},
		{"email", sampleRequest{StartDate: "2026-01-01", Email: "nope"}, "Email must be a valid email address"},
		{"oneof", sampleRequest{StartDate: "2026-01-01", Status: "PENDING"}, "Status must be one of: APPROVED DENIED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperror.MapValidationError(binding.Validator.ValidateStruct(tt.req))

			var appErr *apperror.AppError
			assert.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}

	t.Run("bukan validation error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("EOF"))
		assert.EqualError(t, err, "Invalid input")
	})
}
