package domain

import "context"

type callerIDKey struct{}

// WithCallerID stores the request's authenticated user id on the context so
// downstream tool gating can use it. Tool arguments also carry a user_id, but
// the model writes those, so they must not drive authorization.
func WithCallerID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, callerIDKey{}, userID)
}

// CallerID returns the user id stored by WithCallerID, or "".
func CallerID(ctx context.Context) string {
	if uid, ok := ctx.Value(callerIDKey{}).(string); ok {
		return uid
	}
	return ""
}
