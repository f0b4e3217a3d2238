package token

import (
	"context"
	e "resetme/internal/core/domain/errors"
	"resetme/internal/core/domain/logging"
)

// ConsistencyGuard compares the diagnostics derived from an outgoing
// response against the ones the Verifier actually computed. A mismatch
// used to ship inconsistent diagnoses to support, so in strict
// (non-production) mode it is a hard error; in production the anomaly is
// logged and the response is still sent.
type ConsistencyGuard struct {
	log    logging.Logger
	strict bool
}

func NewConsistencyGuard(log logging.Logger, strict bool) *ConsistencyGuard {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &ConsistencyGuard{log: log, strict: strict}
}

func (g *ConsistencyGuard) Ensure(ctx context.Context, computed Diagnostics, outgoing Diagnostics) error {
	if computed == outgoing {
		return nil
	}

	entries := []logging.LogEntry{
		logging.Entry("computedState", computed.State.String()),
		logging.Entry("outgoingState", outgoing.State.String()),
		logging.Entry("computedFound", computed.Found),
		logging.Entry("outgoingFound", outgoing.Found),
		logging.Entry("computedExpired", computed.Expired),
		logging.Entry("outgoingExpired", outgoing.Expired),
		logging.Entry("computedConsumed", computed.Consumed),
		logging.Entry("outgoingConsumed", outgoing.Consumed),
		logging.Entry("hashSuffix", computed.HashSuffix),
	}
	if g.strict {
		g.log.Error(ctx, "Diagnostics mismatch detected, failing the response.", entries...)
		return ErrDiagnosticsMismatch
	}
	g.log.Error(ctx, "Diagnostics mismatch detected, response sent anyway.", entries...)
	return nil
}
