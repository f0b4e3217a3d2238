package middleware

import (
	"net/http"
	"net/http/httptest"
	"resetme/internal/core/domain/correlation"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDIsGeneratedWhenAbsent(t *testing.T) {
	var seen correlation.ID
	handler := RequestID(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id, ok := correlation.FromContext(r.Context())
		require.True(t, ok)
		seen = id
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	echoed := recorder.Header().Get(RequestIDHeader)
	assert.Equal(t, string(seen), echoed)
	_, err := uuid.Parse(echoed)
	assert.Nil(t, err)
}

func TestRequestIDIsPropagatedWhenPresent(t *testing.T) {
	var seen correlation.ID
	handler := RequestID(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		seen, _ = correlation.FromContext(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(RequestIDHeader, "client-request-id")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, correlation.ID("client-request-id"), seen)
	assert.Equal(t, "client-request-id", recorder.Header().Get(RequestIDHeader))
}
