package token

// State is the terminal classification of a presented token. The first
// six values are produced by the Verifier; StateWeakPassword and
// StateUpdateFailed are produced by the consuming reset flow only.
type State int

const (
	StateMissingFields State = iota
	StateInvalidFormat
	StateNotFound
	StateUsed
	StateExpired
	StateOK
	StateWeakPassword
	StateUpdateFailed
)

func (s State) String() string {
	switch s {
	case StateMissingFields:
		return "missing_fields"
	case StateInvalidFormat:
		return "invalid_format"
	case StateNotFound:
		return "not_found"
	case StateUsed:
		return "used"
	case StateExpired:
		return "expired"
	case StateOK:
		return "ok"
	case StateWeakPassword:
		return "weak_password"
	case StateUpdateFailed:
		return "update_failed"
	}
	return "unknown"
}

// ParseState is the inverse of State.String. Unknown input reports false.
func ParseState(s string) (State, bool) {
	switch s {
	case "missing_fields":
		return StateMissingFields, true
	case "invalid_format":
		return StateInvalidFormat, true
	case "not_found":
		return StateNotFound, true
	case "used":
		return StateUsed, true
	case "expired":
		return StateExpired, true
	case "ok":
		return StateOK, true
	case "weak_password":
		return StateWeakPassword, true
	case "update_failed":
		return StateUpdateFailed, true
	}
	return StateMissingFields, false
}

// Diagnostics carries the non-sensitive facts computed alongside a state.
// It never contains the raw token or the full hash.
type Diagnostics struct {
	State       State
	Reason      string
	Found       bool
	Expired     bool
	Consumed    bool
	TokenLength int
	HashSuffix  string
}
