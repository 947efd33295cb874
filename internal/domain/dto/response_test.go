package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_WithRequestID(t *testing.T) {
	err := NewError(ErrCodeInternal, "test error").WithRequestID("test-id")

	assert.Equal(t, "test-id", err.RequestID)
	assert.Equal(t, ErrCodeInternal, err.Error)
	assert.Equal(t, "test error", err.Message)
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrorResponse_WithDetails(t *testing.T) {
	err := NewError(ErrCodeCircuitOpen, "open").WithDetails(map[string]string{"breaker": "neo4j"})
	assert.Equal(t, "neo4j", err.Details["breaker"])
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status       int
		expectedCode string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusBadGateway, ErrCodeUpstream},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusTeapot, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, ErrCodeFromStatus(tt.status))
		})
	}
}
