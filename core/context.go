package core

import "context"

// Context keys for analysis options
type contextKey string

const suppressOutputKey contextKey = "suppressOutput"

// WithSuppressOutput marks the context so that a run writes no graph files
// and records nothing in the analysis store.
func WithSuppressOutput(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressOutputKey, true)
}

// shouldSuppressOutput returns whether side outputs should be skipped
func shouldSuppressOutput(ctx context.Context) bool {
	val := ctx.Value(suppressOutputKey)
	if val == nil {
		return false // default: write everything
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
