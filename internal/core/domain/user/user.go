package user

import (
	c "resetme/internal/core/domain/common"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID           ID
	Email        c.Email
	DisplayName  string
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

// PasswordPolicy validates new password strength. It never observes
// anything but the candidate password.
type PasswordPolicy interface {
	Validate(password RawPassword) error
}
