package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_SetTypeAndCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("dup"), ErrorTypeConflict, http.StatusConflict},
		{"gateway", NewGatewayError("down"), ErrorTypeGateway, http.StatusBadGateway},
		{"rate limited", NewRateLimitedError("slow down"), ErrorTypeRateLimited, http.StatusTooManyRequests},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_WrappedLookup(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("verify failed: %w", NewGatewayError("Unable to verify payment at the moment").WithCause(cause))

	assert.True(t, IsGatewayError(err))
	assert.False(t, IsNotFoundError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Unable to verify payment at the moment", GetAppError(err).Message)
}

func TestAppError_ErrorIncludesDetails(t *testing.T) {
	err := NewValidationError("invalid request", "redirect_url is required")

	assert.Equal(t, "validation_error: invalid request (redirect_url is required)", err.Error())
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'x' for key 'reference'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: transactions.reference")))
	assert.False(t, IsDuplicateError(errors.New("timeout")))
	assert.False(t, IsDuplicateError(nil))
}
