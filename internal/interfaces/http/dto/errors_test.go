package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"bad request", ErrCodeBadRequest, http.StatusBadRequest},
		{"backend rejection is a business refusal", ErrCodeBackendRejected, http.StatusUnprocessableEntity},
		{"gateway rejection is a business refusal", ErrCodeGatewayRejected, http.StatusUnprocessableEntity},
		{"backend outage is a bad gateway", ErrCodeBackendUnavailable, http.StatusBadGateway},
		{"gateway outage is a bad gateway", ErrCodeGatewayUnavailable, http.StatusBadGateway},
		{"missing credentials is an internal defect", ErrCodeMissingCredentials, http.StatusInternalServerError},
		{"unknown code defaults to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeBackendRejected, NormalizeErrorCode("BACKEND_REJECTED"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode(ErrCodeInternal), "API codes pass through unchanged")
	assert.Equal(t, "CUSTOM", NormalizeErrorCode("CUSTOM"))
}
