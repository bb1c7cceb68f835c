package core

import "context"

type contextKey string

const ctxKeyOwnerID contextKey = "owner_id"

// ContextWithOwnerID records the authenticated owner for downstream calls.
func ContextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxKeyOwnerID, ownerID)
}

// OwnerIDFromContext returns the owner set by ContextWithOwnerID, or "".
func OwnerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOwnerID).(string); ok {
		return v
	}
	return ""
}
