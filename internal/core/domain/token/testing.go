package token

import (
	"context"
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/user"
	"strings"
	"sync"
	"time"
)

type FakeTokenRepository struct {
	Tokens      map[Hash]ResetToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeTokenRepository() *FakeTokenRepository {
	return &FakeTokenRepository{Tokens: make(map[Hash]ResetToken)}
}

func (r *FakeTokenRepository) Create(ctx context.Context, input CreateTokenInput) (t ResetToken, err error) {
	if r.ReturnError {
		return t, errFake
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	t = ResetToken{
		TokenHash:  input.TokenHash,
		OwnerID:    input.OwnerID,
		OwnerEmail: input.OwnerEmail,
		IssuedAt:   input.IssuedAt,
		ExpiresAt:  input.ExpiresAt,
	}
	r.Tokens[input.TokenHash] = t
	return t, nil
}

func (r *FakeTokenRepository) GetByHash(ctx context.Context, hash Hash) (t ResetToken, err error) {
	if r.ReturnError {
		return t, errFake
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	t, ok := r.Tokens[hash]
	if !ok {
		return t, ErrTokenDoesNotExist
	}
	return t, nil
}

func (r *FakeTokenRepository) InvalidateActiveForUser(ctx context.Context, userID user.ID, at time.Time) error {
	if r.ReturnError {
		return errFake
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for h, t := range r.Tokens {
		if t.OwnerID == userID && !t.IsConsumed() && !t.IsExpired(at) {
			t.ExpiresAt = at
			r.Tokens[h] = t
		}
	}
	return nil
}

func (r *FakeTokenRepository) MarkConsumed(ctx context.Context, hash Hash, at time.Time) (bool, error) {
	if r.ReturnError {
		return false, errFake
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	t, ok := r.Tokens[hash]
	if !ok || t.IsConsumed() {
		return false, nil
	}
	t.ConsumedAt = c.NewOptional(at, true)
	r.Tokens[hash] = t
	return true, nil
}

func (r *FakeTokenRepository) DeleteExpiredBefore(ctx context.Context, at time.Time) (int64, error) {
	if r.ReturnError {
		return 0, errFake
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	var deleted int64
	for h, t := range r.Tokens {
		if t.ExpiresAt.Before(at) {
			delete(r.Tokens, h)
			deleted++
		}
	}
	return deleted, nil
}

type fakeError struct{}

func (fakeError) Error() string { return "fake implementation error" }

var errFake = fakeError{}

// FakeCodec keeps the real codec's contract (normalization is idempotent,
// hashing is deterministic and never equals the raw value) while staying
// trivially predictable in tests.
type FakeCodec struct {
	Length    int
	Generated []RawToken
	nextID    int
	lock      sync.Mutex
}

func NewFakeCodec(length int) *FakeCodec {
	return &FakeCodec{Length: length}
}

func (c *FakeCodec) Generate() (RawToken, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.nextID++
	raw := strings.Repeat("a", c.Length-1) + string(rune('a'+(c.nextID%26)))
	t := RawToken(raw)
	c.Generated = append(c.Generated, t)
	return t, nil
}

func (c *FakeCodec) Normalize(input string) RawToken {
	return RawToken(strings.ToLower(strings.Join(strings.Fields(input), "")))
}

func (c *FakeCodec) ValidateFormat(token RawToken) bool {
	if len(token) != c.Length {
		return false
	}
	for _, r := range token {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func (c *FakeCodec) Hash(token RawToken) Hash {
	return Hash(string(token) + "::hashed")
}

type FakeResetTokenSender struct {
	SentTo      []user.User
	SentTokens  []RawToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetTokenSender() *FakeResetTokenSender {
	return &FakeResetTokenSender{}
}

func (s *FakeResetTokenSender) SendResetToken(
	ctx context.Context,
	u user.User,
	t RawToken,
	expiresAt time.Time,
) error {
	if s.ReturnError {
		return fakeError{}
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.SentTo = append(s.SentTo, u)
	s.SentTokens = append(s.SentTokens, t)
	return nil
}

func (s *FakeResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.SentTo)
}
