package user

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the authenticated user id.
func NewContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

func IDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(contextKey{}).(int64)
	return userID, ok
}
