package tokencodec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"resetme/internal/core/domain/token"
	"strings"
)

// TokenLength is the length of a rendered token: 32 random bytes,
// hex-encoded. 256 bits of entropy makes guessing within the validity
// window infeasible.
const TokenLength = 64

type HMACCodec struct {
	pepper []byte
}

// NewHMAC creates a codec whose Hash is keyed with the server-held
// pepper, so a copy of the store alone cannot be used to forge lookups.
func NewHMAC(pepper string) *HMACCodec {
	if pepper == "" {
		panic("pepper must not be empty")
	}
	return &HMACCodec{pepper: []byte(pepper)}
}

func (c *HMACCodec) Generate() (token.RawToken, error) {
	b := make([]byte, TokenLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return token.RawToken(hex.EncodeToString(b)), nil
}

// Normalize canonicalizes user-pasted input: a bare token, a full deep
// link, or a query fragment all collapse to the same lowercase value.
// It is idempotent and must stay the only normalization in the system.
func (c *HMACCodec) Normalize(input string) token.RawToken {
	s := strings.Join(strings.Fields(input), "")
	if i := strings.IndexByte(s, '?'); i >= 0 {
		if v := tokenQueryParam(s[i+1:]); v != "" {
			s = v
		}
	} else if strings.Contains(s, "token=") {
		if v := tokenQueryParam(s); v != "" {
			s = v
		}
	}
	return token.RawToken(strings.ToLower(s))
}

func tokenQueryParam(query string) string {
	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	return values.Get("token")
}

func (c *HMACCodec) ValidateFormat(t token.RawToken) bool {
	if len(t) != TokenLength {
		return false
	}
	for _, r := range t {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

func (c *HMACCodec) Hash(t token.RawToken) token.Hash {
	mac := hmac.New(sha256.New, c.pepper)
	mac.Write([]byte(t))
	return token.Hash(hex.EncodeToString(mac.Sum(nil)))
}
