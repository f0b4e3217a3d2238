package verifyresettoken

import (
	"errors"
	"net/http"
	e "resetme/internal/core/domain/errors"
	ratelimiter "resetme/internal/core/domain/rate_limiter"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/services"
	service "resetme/internal/core/services/verify_reset_token"
	"resetme/internal/http/handlers/auth"
	"resetme/internal/http/handlers/response"
)

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

type result struct {
	Valid       bool                  `json:"valid"`
	Code        string                `json:"code,omitempty"`
	Error       string                `json:"error,omitempty"`
	RequestID   string                `json:"requestId"`
	Diagnostics *response.Diagnostics `json:"diagnostics,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	serviceResult, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:     r.URL.Query().Get("token"),
			CallerKey: auth.CallerKey(r),
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
		body.Valid = true
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
