package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeLinkedRecords is used when deletion is blocked by linked records
	ErrCodeLinkedRecords = "ERR_LINKED_RECORDS"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientBalance is used when an account balance cannot cover
	// a transfer
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	// ErrCodeQuantityExceeded is used when a reception would exceed the
	// ordered quantity
	ErrCodeQuantityExceeded = "ERR_QUANTITY_EXCEEDED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeLinkedRecords: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,
	ErrCodeQuantityExceeded:    http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized API codes.
// Codes with no entry fall back to ErrCodeBusinessRule, which keeps new
// domain rules at 422 until they get an explicit mapping.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,

	"INSUFFICIENT_BALANCE": ErrCodeInsufficientBalance,
	"QUANTITY_EXCEEDED":    ErrCodeQuantityExceeded,
	"LINKED_RECORDS":       ErrCodeLinkedRecords,
	"DUPLICATE_NOTE_TYPE":  ErrCodeConflict,

	"SELF_TRANSFER":     ErrCodeBusinessRule,
	"ORDER_NOT_PENDING": ErrCodeBusinessRule,
	"NOTHING_TO_SEND":   ErrCodeBusinessRule,
	"WRONG_ORDER":       ErrCodeBusinessRule,
	"LINE_RECEIVED":     ErrCodeBusinessRule,

	"INVALID_AMOUNT":        ErrCodeInvalidInput,
	"INVALID_QUANTITY":      ErrCodeInvalidInput,
	"INVALID_NAME":          ErrCodeInvalidInput,
	"INVALID_LABEL":         ErrCodeInvalidInput,
	"INVALID_PARENT":        ErrCodeInvalidInput,
	"INVALID_ACCOUNT":       ErrCodeInvalidInput,
	"INVALID_BUDGET":        ErrCodeInvalidInput,
	"INVALID_ORDER":         ErrCodeInvalidInput,
	"INVALID_ORDER_LINE":    ErrCodeInvalidInput,
	"INVALID_ORDER_NUMBER":  ErrCodeInvalidInput,
	"INVALID_ORDER_TYPE":    ErrCodeInvalidInput,
	"INVALID_ORGANISATION":  ErrCodeInvalidInput,
	"INVALID_VENDOR":        ErrCodeInvalidInput,
	"INVALID_DOCUMENT":      ErrCodeInvalidInput,
	"INVALID_RECEIPT":       ErrCodeInvalidInput,
	"INVALID_NOTE":          ErrCodeInvalidInput,
	"INVALID_NOTE_TYPE":     ErrCodeInvalidInput,
	"INVALID_PERIOD":        ErrCodeInvalidInput,
	"INVALID_EXCHANGE_RATE": ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return ErrCodeBusinessRule
}
