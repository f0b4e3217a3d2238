package correlation

import "context"

// ID is an opaque identifier threaded through a single request's logs and
// responses so that client- and server-side reports can be joined.
type ID string

type contextKey struct{}

func WithID(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(contextKey{}).(ID)
	return id, ok
}
