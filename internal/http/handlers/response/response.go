package response

import (
	"encoding/json"
	"net/http"
	"resetme/internal/core/domain/correlation"
	"resetme/internal/core/domain/token"
)

const (
	CodeTokenInvalidOrExpired = "TOKEN_INVALID_OR_EXPIRED"
	CodeTokenUsed             = "TOKEN_USED"
	CodeMissingFields         = "MISSING_FIELDS"
	CodeWeakPassword          = "WEAK_PASSWORD"
	CodeUpdateFailed          = "UPDATE_FAILED"
	CodeRateLimited           = "RATE_LIMITED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// CodeForState is the single canonical mapping from token states to wire
// codes and HTTP statuses. Every handler that reports a state must go
// through it so that clients never see two diverging taxonomies.
func CodeForState(s token.State) (code string, status int) {
	switch s {
	case token.StateMissingFields:
		return CodeMissingFields, http.StatusBadRequest
	case token.StateInvalidFormat, token.StateNotFound, token.StateExpired:
		return CodeTokenInvalidOrExpired, http.StatusUnprocessableEntity
	case token.StateUsed:
		return CodeTokenUsed, http.StatusUnprocessableEntity
	case token.StateWeakPassword:
		return CodeWeakPassword, http.StatusUnprocessableEntity
	case token.StateUpdateFailed:
		return CodeUpdateFailed, http.StatusInternalServerError
	}
	return CodeInternalError, http.StatusInternalServerError
}

func MessageForCode(code string) string {
	switch code {
	case CodeMissingFields:
		return "token is required"
	case CodeTokenInvalidOrExpired:
		return "password reset link is invalid or has expired"
	case CodeTokenUsed:
		return "password reset link has already been used"
	case CodeWeakPassword:
		return "password does not meet the minimum requirements"
	case CodeUpdateFailed:
		return "could not update the password, request a new reset link"
	case CodeRateLimited:
		return "rate limit exceeded"
	}
	return "internal error"
}

// Diagnostics is the wire form of token.Diagnostics. It is only attached
// for test-mode builds or operator-authenticated requests.
type Diagnostics struct {
	State       string `json:"state"`
	Reason      string `json:"reason"`
	Found       bool   `json:"found"`
	Expired     bool   `json:"expired"`
	Used        bool   `json:"used"`
	TokenLength int    `json:"tokenLength"`
	HashSuffix  string `json:"hashSuffix"`
}

func NewDiagnostics(d token.Diagnostics) Diagnostics {
	return Diagnostics{
		State:       d.State.String(),
		Reason:      d.Reason,
		Found:       d.Found,
		Expired:     d.Expired,
		Used:        d.Consumed,
		TokenLength: d.TokenLength,
		HashSuffix:  d.HashSuffix,
	}
}

// ToDomain maps the wire form back to the domain form so that the
// consistency guard can compare what was computed against what is about
// to be sent.
func (d Diagnostics) ToDomain() token.Diagnostics {
	state, _ := token.ParseState(d.State)
	return token.Diagnostics{
		State:       state,
		Reason:      d.Reason,
		Found:       d.Found,
		Expired:     d.Expired,
		Consumed:    d.Used,
		TokenLength: d.TokenLength,
		HashSuffix:  d.HashSuffix,
	}
}

type errorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

func RequestID(r *http.Request) string {
	id, _ := correlation.FromContext(r.Context())
	return string(id)
}

func RenderInternalError(rw http.ResponseWriter, r *http.Request) {
	RenderError(rw, r, CodeInternalError, "internal error", http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter, r *http.Request) {
	RenderError(rw, r, CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests)
}

func RenderError(rw http.ResponseWriter, r *http.Request, code string, msg string, status int) {
	Render(rw, errorResponse{Code: code, Error: msg, RequestID: RequestID(r)}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
