package user

import "errors"

var (
	ErrUserDoesNotExist = errors.New("user does not exist")
	ErrWeakPassword     = errors.New("password does not meet the policy requirements")
)
