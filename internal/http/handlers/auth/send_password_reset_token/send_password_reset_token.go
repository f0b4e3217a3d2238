package sendpasswordresettoken

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "resetme/internal/core/domain/common"
	e "resetme/internal/core/domain/errors"
	ratelimiter "resetme/internal/core/domain/rate_limiter"
	"resetme/internal/core/services"
	service "resetme/internal/core/services/issue_reset_token"
	"resetme/internal/http/handlers/auth"
	"resetme/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Message is identical whether or not the account exists so that the
// endpoint cannot be used to enumerate registered email addresses.
const Message = "If the account exists, a password reset link has been sent to the email address."

const TestTokenHeader = "x-test-password-reset-token"

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

type result struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
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
			Email:     c.NewEmail(input.Email),
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

	if h.isTestMode && serviceResult.Token != "" {
		rw.Header().Set(TestTokenHeader, string(serviceResult.Token))
	}
	response.Render(rw, result{Message: Message, RequestID: response.RequestID(r)}, http.StatusOK)
}
