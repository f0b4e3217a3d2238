package verifyresettoken

import (
	"context"
	e "resetme/internal/core/domain/errors"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/services"
)

type Input struct {
	Token     string
	CallerKey string
}

func (i Input) GetRateLimitKey() string {
	return "verify_reset_token::" + i.CallerKey
}

type Result struct {
	State       token.State
	Diagnostics token.Diagnostics
}

// service inspects a presented token without altering any state. It is
// read-only and idempotent; clients may call it on every input change.
type service struct {
	log      logging.Logger
	verifier *token.Verifier
}

func New(log logging.Logger, verifier *token.Verifier) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if verifier == nil {
		panic(e.NewNilArgumentError("verifier"))
	}
	return &service{log: log, verifier: verifier}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	state, diag, _, err := s.verifier.Verify(ctx, input.Token)
	if err != nil {
		s.log.Error(ctx, "Could not verify password reset token.", logging.Entry("err", err))
		return result, err
	}
	s.log.Info(
		ctx,
		"Password reset token has been verified.",
		logging.Entry("state", state.String()),
		logging.Entry("hashSuffix", diag.HashSuffix),
	)
	return Result{State: state, Diagnostics: diag}, nil
}
