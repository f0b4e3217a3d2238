package tokencodec

import (
	"resetme/internal/core/domain/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const PEPPER = "test-pepper"

func TestGenerate(t *testing.T) {
	assert := require.New(t)
	codec := NewHMAC(PEPPER)

	seen := make(map[token.RawToken]struct{})
	for i := 0; i < 100; i++ {
		raw, err := codec.Generate()
		assert.Nil(err)
		assert.Len(string(raw), TokenLength)
		assert.True(codec.ValidateFormat(raw))
		_, duplicate := seen[raw]
		assert.False(duplicate)
		seen[raw] = struct{}{}
	}
}

func TestNormalize(t *testing.T) {
	bare := strings.Repeat("ab12", 16)
	cases := []struct {
		id       string
		input    string
		expected string
	}{
		{id: "bare token", input: bare, expected: bare},
		{id: "upper case", input: strings.ToUpper(bare), expected: bare},
		{id: "inner whitespace", input: bare[:10] + " \t" + bare[10:], expected: bare},
		{id: "surrounding whitespace", input: "  " + bare + "\n", expected: bare},
		{
			id:       "deep link",
			input:    "https://example.com/reset?token=" + bare + "&lang=en",
			expected: bare,
		},
		{
			id:       "deep link with uppercase token",
			input:    "https://example.com/reset?token=" + strings.ToUpper(bare),
			expected: bare,
		},
		{
			id:       "query fragment without url",
			input:    "token=" + bare,
			expected: bare,
		},
		{
			id:       "query with spaces around equals",
			input:    "https://example.com/reset?token = " + bare,
			expected: bare,
		},
	}

	codec := NewHMAC(PEPPER)
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			assert := require.New(t)
			normalized := codec.Normalize(testcase.input)
			assert.Equal(token.RawToken(testcase.expected), normalized)
			// Idempotence: normalizing a normalized value is a no-op.
			assert.Equal(normalized, codec.Normalize(string(normalized)))
		})
	}
}

func TestValidateFormat(t *testing.T) {
	cases := []struct {
		id       string
		input    string
		expected bool
	}{
		{id: "valid", input: strings.Repeat("0f", 32), expected: true},
		{id: "too short", input: strings.Repeat("0f", 31), expected: false},
		{id: "too long", input: strings.Repeat("0f", 33), expected: false},
		{id: "empty", input: "", expected: false},
		{id: "upper case hex", input: strings.Repeat("0F", 32), expected: false},
		{id: "non-hex characters", input: strings.Repeat("0g", 32), expected: false},
	}

	codec := NewHMAC(PEPPER)
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.expected, codec.ValidateFormat(token.RawToken(testcase.input)))
		})
	}
}

func TestHash(t *testing.T) {
	assert := require.New(t)
	codec := NewHMAC(PEPPER)
	raw := token.RawToken(strings.Repeat("ab12", 16))

	hash := codec.Hash(raw)
	assert.NotEqual(string(raw), string(hash))
	assert.Equal(hash, codec.Hash(raw))
	assert.Len(string(hash), 64)

	otherPepper := NewHMAC("another-pepper")
	assert.NotEqual(hash, otherPepper.Hash(raw))
}
