package issueresettoken

import (
	"context"
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	uow "resetme/internal/core/domain/unit_of_work"
	"resetme/internal/core/domain/user"
	"resetme/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const TOKEN_LENGTH = 8
const USER_ID = user.ID(42)
const USER_EMAIL = c.Email("user@example.com")

var NOW = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

type suite struct {
	log        *logging.FakeLogger
	unitOfWork *uow.FakeUnitOfWork
	users      *user.FakeUserRepository
	codec      *token.FakeCodec
	sender     *token.FakeResetTokenSender
}

func setupSuite() *suite {
	unitOfWork := uow.NewFakeUnitOfWork()
	users := unitOfWork.Context.UserRepository
	users.Users = []user.User{
		{ID: USER_ID, Email: USER_EMAIL, DisplayName: "Test User", CreatedAt: NOW.Add(-24 * time.Hour)},
	}
	return &suite{
		log:        logging.NewFakeLogger(),
		unitOfWork: unitOfWork,
		users:      users,
		codec:      token.NewFakeCodec(TOKEN_LENGTH),
		sender:     token.NewFakeResetTokenSender(),
	}
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(
		s.log,
		s.unitOfWork,
		s.users,
		s.codec,
		s.sender,
		time.Hour,
		func() time.Time { return NOW },
	)
}

func (s *suite) tokens() *token.FakeTokenRepository {
	return s.unitOfWork.Context.TokenRepository
}

func TestTokenIssuedForExistingAccount(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()

	result, err := s.createService().Run(context.Background(), Input{Email: USER_EMAIL})

	assert.Nil(err)
	assert.NotEmpty(result.Token)
	assert.Equal(1, s.sender.SentCount())
	assert.Equal(USER_ID, s.sender.SentTo[0].ID)
	assert.True(s.unitOfWork.Context.WasCommitCalled)

	hash := s.codec.Hash(result.Token)
	rec, ok := s.tokens().Tokens[hash]
	assert.True(ok)
	assert.Equal(USER_ID, rec.OwnerID)
	assert.Equal(USER_EMAIL, rec.OwnerEmail)
	assert.Equal(NOW, rec.IssuedAt)
	assert.Equal(NOW.Add(time.Hour), rec.ExpiresAt)
	assert.False(rec.IsConsumed())
}

func TestUnknownEmailYieldsSameResultAndNoSideEffects(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()

	result, err := s.createService().Run(context.Background(), Input{Email: "nobody@example.com"})

	assert.Nil(err)
	assert.Empty(result.Token)
	assert.Equal(0, s.sender.SentCount())
	assert.Empty(s.tokens().Tokens)
	assert.False(s.unitOfWork.Context.WasCommitCalled)
}

func TestReissueInvalidatesPreviousToken(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	service := s.createService()

	first, err := service.Run(context.Background(), Input{Email: USER_EMAIL})
	assert.Nil(err)
	second, err := service.Run(context.Background(), Input{Email: USER_EMAIL})
	assert.Nil(err)
	assert.NotEqual(first.Token, second.Token)

	firstRec := s.tokens().Tokens[s.codec.Hash(first.Token)]
	secondRec := s.tokens().Tokens[s.codec.Hash(second.Token)]
	assert.True(firstRec.IsExpired(NOW.Add(time.Nanosecond)))
	assert.False(secondRec.IsExpired(NOW.Add(time.Nanosecond)))
}

func TestStoreErrorIsSwallowedIntoGenericResult(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	s.tokens().ReturnError = true

	result, err := s.createService().Run(context.Background(), Input{Email: USER_EMAIL})

	assert.Nil(err)
	assert.Empty(result.Token)
	assert.Equal(0, s.sender.SentCount())
}

func TestSenderErrorIsSwallowedIntoGenericResult(t *testing.T) {
	assert := require.New(t)
	s := setupSuite()
	s.sender.ReturnError = true

	result, err := s.createService().Run(context.Background(), Input{Email: USER_EMAIL})

	assert.Nil(err)
	assert.Empty(result.Token)
	// The token row is still created; only delivery failed.
	assert.Len(s.tokens().Tokens, 1)
}
