package token

import (
	"context"
	"errors"
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	"resetme/internal/db"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const createToken = `
INSERT INTO password_reset_token (token_hash, owner_id, owner_email, issued_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING token_hash, owner_id, owner_email, issued_at, expires_at, consumed_at
`

const getTokenByHash = `
SELECT token_hash, owner_id, owner_email, issued_at, expires_at, consumed_at
FROM password_reset_token
WHERE token_hash = $1
`

const invalidateActiveTokens = `
UPDATE password_reset_token
SET expires_at = $2
WHERE owner_id = $1 AND consumed_at IS NULL AND expires_at > $2
`

// markTokenConsumed is the single conditional update that makes
// concurrent resets race-safe: only one caller can flip consumed_at.
const markTokenConsumed = `
UPDATE password_reset_token
SET consumed_at = $2
WHERE token_hash = $1 AND consumed_at IS NULL
`

const deleteExpiredTokens = `
DELETE FROM password_reset_token WHERE expires_at < $1
`

type PgxTokenRepository struct {
	db db.Querier
}

func NewPgxRepository(db db.Querier) *PgxTokenRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxTokenRepository{db: db}
}

func (r *PgxTokenRepository) Create(
	ctx context.Context,
	input token.CreateTokenInput,
) (t token.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		createToken,
		string(input.TokenHash),
		int64(input.OwnerID),
		string(input.OwnerEmail),
		input.IssuedAt,
		input.ExpiresAt,
	)
	return decodeToken(row)
}

func (r *PgxTokenRepository) GetByHash(ctx context.Context, hash token.Hash) (t token.ResetToken, err error) {
	row := r.db.QueryRow(ctx, getTokenByHash, string(hash))
	t, err = decodeToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, token.ErrTokenDoesNotExist
	}
	return t, err
}

func (r *PgxTokenRepository) InvalidateActiveForUser(
	ctx context.Context,
	userID user.ID,
	at time.Time,
) error {
	_, err := r.db.Exec(ctx, invalidateActiveTokens, int64(userID), at)
	return err
}

func (r *PgxTokenRepository) MarkConsumed(ctx context.Context, hash token.Hash, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markTokenConsumed, string(hash), at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxTokenRepository) DeleteExpiredBefore(ctx context.Context, at time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredTokens, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func decodeToken(row pgx.Row) (t token.ResetToken, err error) {
	var (
		hash       string
		ownerID    int64
		ownerEmail string
		consumedAt pgtype.Timestamptz
	)
	err = row.Scan(&hash, &ownerID, &ownerEmail, &t.IssuedAt, &t.ExpiresAt, &consumedAt)
	if err != nil {
		return t, err
	}
	t.TokenHash = token.Hash(hash)
	t.OwnerID = user.ID(ownerID)
	t.OwnerEmail = c.Email(ownerEmail)
	t.ConsumedAt = c.NewOptional(consumedAt.Time, consumedAt.Status == pgtype.Present)
	return t, nil
}
