package services

import (
	"resetme/internal/app/deps"
	drl "resetme/internal/core/domain/rate_limiter"
	"resetme/internal/core/services"
	issueresettoken "resetme/internal/core/services/issue_reset_token"
	ratelimiting "resetme/internal/core/services/rate_limiting"
	resetpassword "resetme/internal/core/services/reset_password"
	verifyresettoken "resetme/internal/core/services/verify_reset_token"
)

type Services struct {
	IssueResetToken  services.Service[issueresettoken.Input, issueresettoken.Result]
	VerifyResetToken services.Service[verifyresettoken.Input, verifyresettoken.Result]
	ResetPassword    services.Service[resetpassword.Input, resetpassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.IssueResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Window: deps.Config.RateLimitWindow, Value: deps.Config.IssueRateLimit},
		issueresettoken.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.UserRepository,
			deps.TokenCodec,
			deps.ResetTokenSender,
			deps.Config.PasswordResetValidDuration,
			deps.Now,
		),
	)
	s.VerifyResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Window: deps.Config.RateLimitWindow, Value: deps.Config.VerifyRateLimit},
		verifyresettoken.New(
			deps.Logger,
			deps.TokenVerifier,
		),
	)
	s.ResetPassword = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Window: deps.Config.RateLimitWindow, Value: deps.Config.ResetRateLimit},
		resetpassword.New(
			deps.Logger,
			deps.TokenVerifier,
			deps.TokenRepository,
			deps.UserRepository,
			deps.PasswordPolicy,
			deps.PasswordHasher,
			deps.Now,
		),
	)

	return s
}
