package user

import (
	"context"
	"errors"
	c "resetme/internal/core/domain/common"
	"resetme/internal/core/domain/user"
	"resetme/internal/db"

	"github.com/jackc/pgx/v4"
)

const getUserByID = `
SELECT id, email, display_name, password_hash, created_at
FROM account
WHERE id = $1
`

const getUserByEmail = `
SELECT id, email, display_name, password_hash, created_at
FROM account
WHERE email = $1
`

const setUserPassword = `
UPDATE account SET password_hash = $2 WHERE id = $1
`

type PgxUserRepository struct {
	db db.Querier
}

func NewPgxRepository(db db.Querier) *PgxUserRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (user.User, error) {
	return r.getBy(ctx, getUserByID, int64(id))
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (user.User, error) {
	return r.getBy(ctx, getUserByEmail, string(email))
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(ctx, setUserPassword, int64(id), string(password))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) getBy(ctx context.Context, query string, arg interface{}) (u user.User, err error) {
	row := r.db.QueryRow(ctx, query, arg)
	var (
		id           int64
		email        string
		displayName  string
		passwordHash string
	)
	err = row.Scan(&id, &email, &displayName, &passwordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = c.Email(email)
	u.DisplayName = displayName
	u.PasswordHash = user.PasswordHash(passwordHash)
	return u, nil
}
