package token

import (
	"context"
	"resetme/internal/core/domain/user"
	"time"
)

// ResetTokenSender delivers the raw token to the account owner. This is
// the issuance-time delivery channel, the only place a raw token leaves
// the service.
type ResetTokenSender interface {
	SendResetToken(ctx context.Context, u user.User, t RawToken, expiresAt time.Time) error
}
