package issueresettoken

import (
	"context"
	"errors"
	c "resetme/internal/core/domain/common"
	e "resetme/internal/core/domain/errors"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	uow "resetme/internal/core/domain/unit_of_work"
	"resetme/internal/core/domain/user"
	"resetme/internal/core/services"
	"time"
)

type Input struct {
	Email     c.Email
	CallerKey string
}

func (i Input) GetRateLimitKey() string {
	return "issue_reset_token::" + i.CallerKey
}

// Result is identical whether or not an account exists; Token is set only
// on the issuing branch so that test-mode transport can expose it.
type Result struct {
	Token token.RawToken
}

type service struct {
	log           logging.Logger
	unitOfWork    uow.UnitOfWork
	users         user.UserRepository
	codec         token.Codec
	sender        token.ResetTokenSender
	validDuration time.Duration
	now           func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	users user.UserRepository,
	codec token.Codec,
	sender token.ResetTokenSender,
	validDuration time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	if codec == nil {
		panic(e.NewNilArgumentError("codec"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		unitOfWork:    unitOfWork,
		users:         users,
		codec:         codec,
		sender:        sender,
		validDuration: validDuration,
		now:           now,
	}
}

// Run always succeeds from the caller's point of view. The caller must
// not be able to tell whether an account exists, so every internal
// failure after input validation collapses into the same empty result.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.")
		return result, nil
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user for password reset.", logging.Entry("err", err))
		return result, nil
	}

	rawToken, err := s.codec.Generate()
	if err != nil {
		s.log.Error(ctx, "Could not generate password reset token.", logging.Entry("err", err))
		return result, nil
	}
	normalized := s.codec.Normalize(string(rawToken))
	hash := s.codec.Hash(normalized)

	now := s.now()
	expiresAt := now.Add(s.validDuration)

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, nil
	}
	defer uow.Rollback(ctx)

	if err := uow.Tokens().InvalidateActiveForUser(ctx, u.ID, now); err != nil {
		s.log.Error(
			ctx,
			"Could not invalidate previous password reset tokens.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, nil
	}
	_, err = uow.Tokens().Create(ctx, token.CreateTokenInput{
		TokenHash:  hash,
		OwnerID:    u.ID,
		OwnerEmail: u.Email,
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, nil
	}
	if err := uow.Commit(ctx); err != nil {
		s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("err", err))
		return result, nil
	}

	if err := s.sender.SendResetToken(ctx, u, normalized, expiresAt); err != nil {
		// Delivery failures stay invisible to the caller as well.
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, nil
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("userID", u.ID),
		logging.Entry("hashSuffix", hash.Suffix()),
	)
	result.Token = normalized
	return result, nil
}
