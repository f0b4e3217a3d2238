package resetpassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "resetme/internal/core/domain/errors"
	ratelimiter "resetme/internal/core/domain/rate_limiter"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	"resetme/internal/core/services"
	service "resetme/internal/core/services/reset_password"
	"resetme/internal/http/handlers/auth"
	"resetme/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

const Message = "Password has been successfully reset. You can now sign in with the new password."

type Handler struct {
	service       services.Service[service.Input, service.Result]
	guard         *token.ConsistencyGuard
	isTestMode    bool
	operatorToken string
}

func New(
	service services.Service[service.Input, service.Result],
	guard *token.ConsistencyGuard,
	isTestMode bool,
	operatorToken string,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if guard == nil {
		panic(e.NewNilArgumentError("guard"))
	}
	return &Handler{
		service:       service,
		guard:         guard,
		isTestMode:    isTestMode,
		operatorToken: operatorToken,
	}
}

type Input struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(0, 256)),
	)
}

type result struct {
	Message     string                `json:"message,omitempty"`
	Code        string                `json:"code,omitempty"`
	Error       string                `json:"error,omitempty"`
	RequestID   string                `json:"requestId"`
	Diagnostics *response.Diagnostics `json:"diagnostics,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, r, response.CodeMissingFields, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderError(rw, r, response.CodeMissingFields, err.Error(), http.StatusBadRequest)
		return
	}

	serviceResult, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:       input.Token,
			NewPassword: user.RawPassword(input.NewPassword),
			CallerKey:   auth.CallerKey(r),
		},
	)
	if err != nil {
		if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
			response.RenderRateLimitExceeded(rw, r)
			return
		}
		response.RenderInternalError(rw, r)
		return
	}

	body := result{RequestID: response.RequestID(r)}
	status := http.StatusOK
	if serviceResult.State == token.StateOK {
		body.Message = Message
	} else {
		code, codeStatus := response.CodeForState(serviceResult.State)
		body.Code = code
		body.Error = response.MessageForCode(code)
		status = codeStatus
	}

	outgoing := response.NewDiagnostics(serviceResult.Diagnostics)
	if err := h.guard.Ensure(r.Context(), serviceResult.Diagnostics, outgoing.ToDomain()); err != nil {
		response.RenderInternalError(rw, r)
		return
	}
	if h.isTestMode || auth.IsOperator(r, h.operatorToken) {
		body.Diagnostics = &outgoing
	}

	response.Render(rw, body, status)
}
