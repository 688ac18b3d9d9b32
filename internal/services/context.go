package services

import "context"

type contextKey string

const (
	invocationIDKey contextKey = "invocation_id"
	nodeKey         contextKey = "node"
)

// WithInvocationID annotates context with the per-invocation identifier.
func WithInvocationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromContext extracts the invocation identifier if present.
func InvocationIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(invocationIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithNode annotates context with the node kind being computed.
func WithNode(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, nodeKey, name)
}

// NodeFromContext returns the node kind if present.
func NodeFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(nodeKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
