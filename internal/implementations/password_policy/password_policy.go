package passwordpolicy

import (
	"resetme/internal/core/domain/user"
	"unicode"
)

// Policy requires a minimum length plus at least one letter and one
// digit. It deliberately stays byte-count based for length so the check
// matches what stores and forms usually enforce.
type Policy struct {
	minLength int
}

func New(minLength int) *Policy {
	if minLength <= 0 {
		panic("minLength must be positive")
	}
	return &Policy{minLength: minLength}
}

func (p *Policy) Validate(password user.RawPassword) error {
	if len(password) < p.minLength {
		return user.ErrWeakPassword
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return user.ErrWeakPassword
	}
	return nil
}
