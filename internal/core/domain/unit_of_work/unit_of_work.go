package uow

import (
	"context"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	Tokens() token.TokenRepository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
