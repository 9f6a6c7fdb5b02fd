// Package ctxkey defines shared context key types used across packages.
// It must not depend on other internal packages, to avoid import cycles.
package ctxkey

// LoggerKey is the context key type for the request-enriched logger
// (request_id field attached by the HTTP middleware).
type LoggerKey struct{}

// RequestIDKey is the context key type for the request correlation ID.
type RequestIDKey struct{}
