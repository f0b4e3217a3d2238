package token

import (
	"context"
	"errors"
	e "resetme/internal/core/domain/errors"
	"strings"
	"time"
)

// Verifier is the single decision procedure for presented tokens. Both
// the non-consuming verification flow and the consuming reset flow call
// it; they must never re-derive equivalent logic.
type Verifier struct {
	codec  Codec
	tokens TokenRepository
	now    func() time.Time
}

func NewVerifier(codec Codec, tokens TokenRepository, now func() time.Time) *Verifier {
	if codec == nil {
		panic(e.NewNilArgumentError("codec"))
	}
	if tokens == nil {
		panic(e.NewNilArgumentError("tokens"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Verifier{codec: codec, tokens: tokens, now: now}
}

// Verify classifies raw input into exactly one state, first match wins:
// missing fields, invalid format, not found, used, expired, ok. The
// returned record is meaningful only when a row was found. The error is
// non-nil only for store failures, never for classification outcomes.
func (v *Verifier) Verify(ctx context.Context, input string) (State, Diagnostics, ResetToken, error) {
	var rec ResetToken

	if strings.TrimSpace(input) == "" {
		d := Diagnostics{
			State:  StateMissingFields,
			Reason: "token is required",
		}
		return StateMissingFields, d, rec, nil
	}

	normalized := v.codec.Normalize(input)
	d := Diagnostics{TokenLength: len(normalized)}

	if !v.codec.ValidateFormat(normalized) {
		d.State = StateInvalidFormat
		d.Reason = "token has invalid length or characters"
		return StateInvalidFormat, d, rec, nil
	}

	hash := v.codec.Hash(normalized)
	d.HashSuffix = hash.Suffix()

	rec, err := v.tokens.GetByHash(ctx, hash)
	if errors.Is(err, ErrTokenDoesNotExist) {
		d.State = StateNotFound
		d.Reason = "no token found for the presented value"
		return StateNotFound, d, ResetToken{}, nil
	}
	if err != nil {
		return StateNotFound, d, ResetToken{}, err
	}

	d.Found = true
	if rec.IsConsumed() {
		d.State = StateUsed
		d.Consumed = true
		d.Reason = "token has already been used"
		return StateUsed, d, rec, nil
	}
	if rec.IsExpired(v.now()) {
		d.State = StateExpired
		d.Expired = true
		d.Reason = "token has expired"
		return StateExpired, d, rec, nil
	}

	d.State = StateOK
	d.Reason = "token is valid"
	return StateOK, d, rec, nil
}
