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

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Upstream error codes. The backend owns the account state machine and the
// gateway owns payment state; their rejections and outages surface under
// distinct codes so operators can tell a business refusal from an outage.
const (
	// ErrCodeBackendRejected is used when the backend refuses an operation
	ErrCodeBackendRejected = "ERR_BACKEND_REJECTED"
	// ErrCodeBackendUnavailable is used when the backend cannot be reached
	ErrCodeBackendUnavailable = "ERR_BACKEND_UNAVAILABLE"
	// ErrCodeGatewayRejected is used when the payment gateway refuses a request
	ErrCodeGatewayRejected = "ERR_GATEWAY_REJECTED"
	// ErrCodeGatewayUnavailable is used when the payment gateway cannot be reached
	ErrCodeGatewayUnavailable = "ERR_GATEWAY_UNAVAILABLE"
	// ErrCodeMissingCredentials is used when an upstream integration is not configured
	ErrCodeMissingCredentials = "ERR_MISSING_CREDENTIALS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Upstream rejections are business refusals -> 422; outages -> 502
	ErrCodeBackendRejected:    http.StatusUnprocessableEntity,
	ErrCodeGatewayRejected:    http.StatusUnprocessableEntity,
	ErrCodeBackendUnavailable: http.StatusBadGateway,
	ErrCodeGatewayUnavailable: http.StatusBadGateway,

	// A missing credential is a deployment defect, not a caller problem
	ErrCodeMissingCredentials: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"BACKEND_REJECTED":    ErrCodeBackendRejected,
	"BACKEND_UNAVAILABLE": ErrCodeBackendUnavailable,
	"GATEWAY_REJECTED":    ErrCodeGatewayRejected,
	"GATEWAY_UNAVAILABLE": ErrCodeGatewayUnavailable,
	"MISSING_CREDENTIALS": ErrCodeMissingCredentials,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
