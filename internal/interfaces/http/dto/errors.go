package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Billing rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeNoTariffDefined is used when a bill computation has no rate to use
	ErrCodeNoTariffDefined = "ERR_NO_TARIFF_DEFINED"
	// ErrCodeDuplicateReading is used when a meter already has a reading for the date
	ErrCodeDuplicateReading = "ERR_DUPLICATE_READING"
	// ErrCodeDuplicatePaymentReference is used when a payment reference is reused
	ErrCodeDuplicatePaymentReference = "ERR_DUPLICATE_PAYMENT_REFERENCE"
	// ErrCodeBillExistsForReading is used when a reading already has a bill
	ErrCodeBillExistsForReading = "ERR_BILL_EXISTS_FOR_READING"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:              http.StatusUnprocessableEntity,
	ErrCodeNoTariffDefined:           http.StatusUnprocessableEntity,
	ErrCodeDuplicateReading:          http.StatusConflict,
	ErrCodeDuplicatePaymentReference: http.StatusConflict,
	ErrCodeBillExistsForReading:      http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to API error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"ALREADY_EXISTS":              ErrCodeAlreadyExists,
	"INVALID_INPUT":               ErrCodeInvalidInput,
	"INVALID_STATE":               ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":        ErrCodeConcurrencyConflict,
	"NO_TARIFF_DEFINED":           ErrCodeNoTariffDefined,
	"DUPLICATE_READING":           ErrCodeDuplicateReading,
	"DUPLICATE_PAYMENT_REFERENCE": ErrCodeDuplicatePaymentReference,
	"BILL_EXISTS_FOR_READING":     ErrCodeBillExistsForReading,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
