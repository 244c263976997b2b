package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrBackendUnavailable = NewDomainError("BACKEND_UNAVAILABLE", "Backend API is unreachable")
	ErrBackendRejected    = NewDomainError("BACKEND_REJECTED", "Backend API rejected the request")
	ErrGatewayUnavailable = NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is unreachable")
	ErrGatewayRejected    = NewDomainError("GATEWAY_REJECTED", "Payment gateway rejected the request")
	ErrMissingCredentials = NewDomainError("MISSING_CREDENTIALS", "Required credentials are not configured")
)
