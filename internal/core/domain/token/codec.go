package token

// Codec is the only component that observes raw token values. Normalize
// must produce byte-for-byte identical output on every call site,
// otherwise a valid-looking token is silently rejected.
type Codec interface {
	Generate() (RawToken, error)
	Normalize(input string) RawToken
	ValidateFormat(token RawToken) bool
	Hash(token RawToken) Hash
}
