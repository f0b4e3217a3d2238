package passwordpolicy

import (
	"resetme/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		id        string
		minLength int
		password  string
		isValid   bool
	}{
		{id: "valid", minLength: 8, password: "password1", isValid: true},
		{id: "exactly minimum length", minLength: 8, password: "passwd12", isValid: true},
		{id: "too short", minLength: 8, password: "pass1", isValid: false},
		{id: "no digit", minLength: 8, password: "passwords", isValid: false},
		{id: "no letter", minLength: 8, password: "12345678", isValid: false},
		{id: "empty", minLength: 8, password: "", isValid: false},
		{id: "unicode letters count", minLength: 8, password: "pässwörd1", isValid: true},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			assert := require.New(t)
			err := New(testcase.minLength).Validate(user.RawPassword(testcase.password))
			if testcase.isValid {
				assert.Nil(err)
			} else {
				assert.ErrorIs(err, user.ErrWeakPassword)
			}
		})
	}
}
