package token

import "errors"

var (
	ErrTokenDoesNotExist   = errors.New("password reset token does not exist")
	ErrDiagnosticsMismatch = errors.New("response diagnostics do not match the computed ones")
)
