package token

import (
	"context"
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/user"
	"time"
)

type CreateTokenInput struct {
	TokenHash  Hash
	OwnerID    user.ID
	OwnerEmail c.Email
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

type TokenRepository interface {
	Create(ctx context.Context, input CreateTokenInput) (ResetToken, error)
	GetByHash(ctx context.Context, hash Hash) (ResetToken, error)
	// InvalidateActiveForUser logically expires every unconsumed,
	// unexpired token owned by the user.
	InvalidateActiveForUser(ctx context.Context, userID user.ID, at time.Time) error
	// MarkConsumed sets consumedAt only if it is not set yet and reports
	// whether this call won. Concurrent calls for the same hash must
	// observe exactly one true.
	MarkConsumed(ctx context.Context, hash Hash, at time.Time) (bool, error)
	// DeleteExpiredBefore garbage-collects rows whose expiry is older
	// than the given moment. Retention is not required for correctness.
	DeleteExpiredBefore(ctx context.Context, at time.Time) (int64, error)
}
