package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeLinkedRecords, http.StatusConflict},
		{ErrCodeInsufficientBalance, http.StatusUnprocessableEntity},
		{ErrCodeQuantityExceeded, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_NOBODY_KNOWS", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInsufficientBalance, NormalizeErrorCode("INSUFFICIENT_BALANCE"))
	assert.Equal(t, ErrCodeQuantityExceeded, NormalizeErrorCode("QUANTITY_EXCEEDED"))
	assert.Equal(t, ErrCodeLinkedRecords, NormalizeErrorCode("LINKED_RECORDS"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_AMOUNT"))
	assert.Equal(t, ErrCodeBusinessRule, NormalizeErrorCode("SELF_TRANSFER"))

	// Unmapped domain codes stay at 422
	assert.Equal(t, ErrCodeBusinessRule, NormalizeErrorCode("SOMETHING_NEW"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Account not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Account not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "allocated_amount", Message: "must be positive"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-9", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestListRequestWithDefaults(t *testing.T) {
	r := ListRequest{}.WithDefaults()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 20, r.PageSize)
	assert.Equal(t, "asc", r.OrderDir)

	r = ListRequest{Page: 3, PageSize: 50, OrderDir: "desc"}.WithDefaults()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, 50, r.PageSize)
	assert.Equal(t, "desc", r.OrderDir)
}
