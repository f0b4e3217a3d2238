package resetpassword

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"resetme/internal/core/domain/logging"
	ratelimiter "resetme/internal/core/domain/rate_limiter"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	service "resetme/internal/core/services/reset_password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const TOKEN = "4ea5c508a6566e76240543f8feb06fd457777be39549c4016436afda65d2330e"

type stubService struct {
	state token.State
	diag  token.Diagnostics
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	result.State = s.state
	result.Diagnostics = s.diag
	return result, nil
}

func newHandler(stub *stubService, isTestMode bool) *Handler {
	guard := token.NewConsistencyGuard(logging.NewFakeLogger(), true)
	return New(stub, guard, isTestMode, "")
}

func TestResetPasswordHandler(t *testing.T) {
	cases := []struct {
		id              string
		state           token.State
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			id:              "ok",
			state:           token.StateOK,
			expectedStatus:  http.StatusOK,
			expectedMessage: Message,
		},
		{
			id:             "invalid-format",
			state:          token.StateInvalidFormat,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "TOKEN_INVALID_OR_EXPIRED",
		},
		{
			id:             "not-found",
			state:          token.StateNotFound,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "TOKEN_INVALID_OR_EXPIRED",
		},
		{
			id:             "expired",
			state:          token.StateExpired,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "TOKEN_INVALID_OR_EXPIRED",
		},
		{
			id:             "used",
			state:          token.StateUsed,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "TOKEN_USED",
		},
		{
			id:             "weak-password",
			state:          token.StateWeakPassword,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "WEAK_PASSWORD",
		},
		{
			id:             "update-failed",
			state:          token.StateUpdateFailed,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "UPDATE_FAILED",
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			stub := &stubService{
				state: testcase.state,
				diag:  token.Diagnostics{State: testcase.state, Reason: "test"},
			}
			handler := newHandler(stub, false)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(
				http.MethodPut,
				"/auth/password_reset",
				strings.NewReader(`{"token": "`+TOKEN+`", "newPassword": "new-password-1"}`),
			)
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, testcase.expectedStatus, recorder.Code)
			require.NotNil(t, stub.input)
			assert.Equal(t, TOKEN, stub.input.Token)
			assert.Equal(t, user.RawPassword("new-password-1"), stub.input.NewPassword)

			body := result{}
			require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, testcase.expectedCode, body.Code)
			assert.Equal(t, testcase.expectedMessage, body.Message)
			assert.Nil(t, body.Diagnostics)
		})
	}
}

func TestInputIsRejectedBeforeTheService(t *testing.T) {
	cases := []struct {
		id   string
		body string
	}{
		{id: "invalid-json", body: "not a json"},
		{id: "token-missing", body: `{"newPassword": "new-password-1"}`},
		{id: "password-missing", body: `{"token": "` + TOKEN + `"}`},
		{id: "both-missing", body: `{}`},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			stub := &stubService{state: token.StateOK}
			handler := newHandler(stub, false)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(
				http.MethodPut,
				"/auth/password_reset",
				strings.NewReader(testcase.body),
			)
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "MISSING_FIELDS")
			assert.Nil(t, stub.input)
		})
	}
}

func TestDiagnosticsInTestMode(t *testing.T) {
	stub := &stubService{
		state: token.StateUsed,
		diag: token.Diagnostics{
			State:      token.StateUsed,
			Reason:     "token has already been used",
			Found:      true,
			Consumed:   true,
			HashSuffix: "65d2330e",
		},
	}
	handler := newHandler(stub, true)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(
		http.MethodPut,
		"/auth/password_reset",
		strings.NewReader(`{"token": "`+TOKEN+`", "newPassword": "new-password-1"}`),
	)
	handler.ServeHTTP(recorder, request)

	body := result{}
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotNil(t, body.Diagnostics)
	assert.Equal(t, "used", body.Diagnostics.State)
	assert.True(t, body.Diagnostics.Used)
	assert.Equal(t, "65d2330e", body.Diagnostics.HashSuffix)
}

func TestRateLimitExceeded(t *testing.T) {
	handler := newHandler(&stubService{err: ratelimiter.ErrRateLimitExceeded}, false)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(
		http.MethodPut,
		"/auth/password_reset",
		strings.NewReader(`{"token": "`+TOKEN+`", "newPassword": "new-password-1"}`),
	)
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}
