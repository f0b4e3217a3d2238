package resetpassword

import (
	"context"
	"errors"
	e "resetme/internal/core/domain/errors"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	"resetme/internal/core/services"
	"time"
)

type Input struct {
	Token       string
	NewPassword user.RawPassword
	CallerKey   string
}

func (i Input) GetRateLimitKey() string {
	return "reset_password::" + i.CallerKey
}

type Result struct {
	State       token.State
	Diagnostics token.Diagnostics
}

type service struct {
	log            logging.Logger
	verifier       *token.Verifier
	tokens         token.TokenRepository
	users          user.UserRepository
	passwordPolicy user.PasswordPolicy
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	verifier *token.Verifier,
	tokens token.TokenRepository,
	users user.UserRepository,
	passwordPolicy user.PasswordPolicy,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if verifier == nil {
		panic(e.NewNilArgumentError("verifier"))
	}
	if tokens == nil {
		panic(e.NewNilArgumentError("tokens"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	if passwordPolicy == nil {
		panic(e.NewNilArgumentError("passwordPolicy"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		verifier:       verifier,
		tokens:         tokens,
		users:          users,
		passwordPolicy: passwordPolicy,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	state, diag, rec, err := s.verifier.Verify(ctx, input.Token)
	if err != nil {
		s.log.Error(ctx, "Could not verify password reset token.", logging.Entry("err", err))
		return result, err
	}
	if state != token.StateOK {
		return Result{State: state, Diagnostics: diag}, nil
	}

	// The policy check happens before consumption so that a weak
	// password does not burn a valid token.
	if err := s.passwordPolicy.Validate(input.NewPassword); err != nil {
		diag.State = token.StateWeakPassword
		diag.Reason = "new password does not meet the policy requirements"
		return Result{State: token.StateWeakPassword, Diagnostics: diag}, nil
	}

	consumed, err := s.tokens.MarkConsumed(ctx, rec.TokenHash, s.now())
	if err != nil {
		s.log.Error(
			ctx,
			"Could not mark password reset token consumed.",
			logging.Entry("hashSuffix", rec.TokenHash.Suffix()),
			logging.Entry("err", err),
		)
		return result, err
	}
	if !consumed {
		// Lost the race against a concurrent reset with the same token.
		diag.State = token.StateUsed
		diag.Consumed = true
		diag.Reason = "token has already been used"
		return Result{State: token.StateUsed, Diagnostics: diag}, nil
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash new password.", logging.Entry("err", err))
		diag.State = token.StateUpdateFailed
		diag.Consumed = true
		diag.Reason = "could not update the account password"
		return Result{State: token.StateUpdateFailed, Diagnostics: diag}, nil
	}
	err = s.users.SetPassword(ctx, rec.OwnerID, newPasswordHash)
	if err != nil && !errors.Is(err, context.Canceled) {
		// Fail closed: the token stays consumed so a retry cannot replay it.
		s.log.Error(
			ctx,
			"Could not update account password, token stays consumed.",
			logging.Entry("userID", rec.OwnerID),
			logging.Entry("hashSuffix", rec.TokenHash.Suffix()),
			logging.Entry("err", err),
		)
		diag.State = token.StateUpdateFailed
		diag.Consumed = true
		diag.Reason = "could not update the account password"
		return Result{State: token.StateUpdateFailed, Diagnostics: diag}, nil
	}
	if err != nil {
		return result, err
	}

	s.log.Info(
		ctx,
		"Password has been successfully reset.",
		logging.Entry("userID", rec.OwnerID),
		logging.Entry("hashSuffix", rec.TokenHash.Suffix()),
	)
	return Result{State: token.StateOK, Diagnostics: diag}, nil
}
