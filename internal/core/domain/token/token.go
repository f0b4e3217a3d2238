package token

import (
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/user"
	"time"
)

// RawToken is the secret value delivered to the user. It never reaches
// the store, responses or logs after issuance-time delivery.
type RawToken string

func (t RawToken) String() string {
	return "***"
}

// Hash is the keyed hash of a canonicalized raw token, used as the only
// lookup key for stored records.
type Hash string

// Suffix returns the tail of the hash for log correlation. The full hash
// never leaves the server.
func (h Hash) Suffix() string {
	const n = 8
	if len(h) <= n {
		return string(h)
	}
	return string(h[len(h)-n:])
}

type ResetToken struct {
	TokenHash  Hash
	OwnerID    user.ID
	OwnerEmail c.Email
	IssuedAt   time.Time
	ExpiresAt  time.Time
	ConsumedAt c.Optional[time.Time]
}

func (t ResetToken) IsConsumed() bool {
	return t.ConsumedAt.IsPresent
}

func (t ResetToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
