package auth

import (
	"net"
	"net/http"
)

const OPERATOR_TOKEN_HEADER = "X-Operator-Token"

// CallerKey identifies the remote caller for rate limiting purposes. The
// port part of RemoteAddr changes per connection and must not split one
// caller across limiter buckets.
func CallerKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IsOperator reports whether the request carries the pre-shared operator
// token. An empty configured token never matches.
func IsOperator(r *http.Request, operatorToken string) bool {
	if operatorToken == "" {
		return false
	}
	return r.Header.Get(OPERATOR_TOKEN_HEADER) == operatorToken
}
