package middleware

import (
	"net/http"
	"resetme/internal/core/domain/correlation"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestID reads the correlation id from the request, generating a fresh
// one when absent, stores it in the context and echoes it back on the
// response so that client and server reports can be joined.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		rw.Header().Set(RequestIDHeader, id)
		ctx := correlation.WithID(r.Context(), correlation.ID(id))
		next.ServeHTTP(rw, r.WithContext(ctx))
	})
}
