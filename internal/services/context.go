package services

import "context"

type contextKey string

const (
	doiKey       contextKey = "doi"
	sessionIDKey contextKey = "session_id"
)

// WithDOI annotates context with the DOI currently being processed.
func WithDOI(ctx context.Context, doi string) context.Context {
	if doi == "" {
		return ctx
	}
	return context.WithValue(ctx, doiKey, doi)
}

// DOIFromContext extracts the DOI if present.
func DOIFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(doiKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSessionID annotates context with the curation session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
