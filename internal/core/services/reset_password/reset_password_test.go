package resetpassword

import (
	"context"
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	"resetme/internal/core/services"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const TOKEN_LENGTH = 8
const USER_ID = user.ID(42)
const VALID_TOKEN = "abcdefgh"
const NEW_PASSWORD = user.RawPassword("correct-horse-battery")

var NOW = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

type suite struct {
	log    *logging.FakeLogger
	codec  *token.FakeCodec
	tokens *token.FakeTokenRepository
	users  *user.FakeUserRepository
	policy *user.FakePasswordPolicy
	hasher *user.FakePasswordHasher
}

func setupSuite() *suite {
	users := user.NewFakeUserRepository()
	users.Users = []user.User{
		{ID: USER_ID, Email: "user@example.com", PasswordHash: "old-hash"},
	}
	return &suite{
		log:    logging.NewFakeLogger(),
		codec:  token.NewFakeCodec(TOKEN_LENGTH),
		tokens: token.NewFakeTokenRepository(),
		users:  users,
		policy: user.NewFakePasswordPolicy(),
		hasher: user.NewFakePasswordHasher(),
	}
}

func (s *suite) createService() services.Service[Input, Result] {
	verifier := token.NewVerifier(s.codec, s.tokens, func() time.Time { return NOW })
	return New(s.log, verifier, s.tokens, s.users, s.policy, s.hasher, func() time.Time { return NOW })
}

func (s *suite) insertValidToken() token.Hash {
	hash := s.codec.Hash(VALID_TOKEN)
	s.tokens.Tokens[hash] = token.ResetToken{
		TokenHash:  hash,
		OwnerID:    USER_ID,
		OwnerEmail: "user@example.com",
		IssuedAt:   NOW.Add(-time.Minute),
		ExpiresAt:  NOW.Add(time.Hour),
	}
	return hash
}

func TestPasswordSuccessfullyReset(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	hash := s.insertValidToken()

	result, err := s.createService().Run(
		context.Background(),
		Input{Token: VALID_TOKEN, NewPassword: NEW_PASSWORD},
	)

	assert.Nil(err)
	assert.Equal(token.StateOK, result.State)
	assert.True(s.tokens.Tokens[hash].IsConsumed())
	expectedHash, _ := s.hasher.HashPassword(NEW_PASSWORD)
	assert.Equal(expectedHash, s.users.PasswordsSet[USER_ID])
}

func TestNonOKStateLeavesEverythingUntouched(t *testing.T) {
	cases := []struct {
		id            string
		input         string
		expectedState token.State
	}{
		{id: "missing token", input: "", expectedState: token.StateMissingFields},
		{id: "invalid format", input: "nope", expectedState: token.StateInvalidFormat},
		{id: "unknown token", input: "zzzzzzzz", expectedState: token.StateNotFound},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			assert := require.New(t)
			s := setupSuite()
			hash := s.insertValidToken()

			result, err := s.createService().Run(
				context.Background(),
				Input{Token: testcase.input, NewPassword: NEW_PASSWORD},
			)

			assert.Nil(err)
			assert.Equal(testcase.expectedState, result.State)
			assert.False(s.tokens.Tokens[hash].IsConsumed())
			assert.Empty(s.users.PasswordsSet)
		})
	}
}

func TestWeakPasswordDoesNotConsumeToken(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	hash := s.insertValidToken()

	result, err := s.createService().Run(
		context.Background(),
		Input{Token: VALID_TOKEN, NewPassword: "short"},
	)

	assert.Nil(err)
	assert.Equal(token.StateWeakPassword, result.State)
	assert.False(s.tokens.Tokens[hash].IsConsumed())
	assert.Empty(s.users.PasswordsSet)
}

func TestConsumedTokenYieldsUsed(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	hash := s.insertValidToken()
	rec := s.tokens.Tokens[hash]
	rec.ConsumedAt = c.NewOptional(NOW.Add(-time.Second), true)
	s.tokens.Tokens[hash] = rec

	result, err := s.createService().Run(
		context.Background(),
		Input{Token: VALID_TOKEN, NewPassword: NEW_PASSWORD},
	)

	assert.Nil(err)
	assert.Equal(token.StateUsed, result.State)
	assert.True(result.Diagnostics.Consumed)
	assert.Empty(s.users.PasswordsSet)
}

func TestFailedPasswordUpdateLeavesTokenConsumed(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	hash := s.insertValidToken()
	s.users.SetPasswordError = true

	result, err := s.createService().Run(
		context.Background(),
		Input{Token: VALID_TOKEN, NewPassword: NEW_PASSWORD},
	)

	assert.Nil(err)
	assert.Equal(token.StateUpdateFailed, result.State)
	// Fail closed: the burned token cannot be replayed.
	assert.True(s.tokens.Tokens[hash].IsConsumed())
}

func TestConcurrentResetsConsumeAtMostOnce(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	s.insertValidToken()
	service := s.createService()

	const attempts = 16
	results := make([]Result, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = service.Run(
				context.Background(),
				Input{Token: VALID_TOKEN, NewPassword: NEW_PASSWORD},
			)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.Nil(err)
	}

	okCount, usedCount := 0, 0
	for _, r := range results {
		switch r.State {
		case token.StateOK:
			okCount++
		case token.StateUsed:
			usedCount++
		}
	}
	assert.Equal(1, okCount)
	assert.Equal(attempts-1, usedCount)
}
