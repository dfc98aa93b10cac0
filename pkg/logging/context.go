package logging

import (
	"context"
	"time"
)

// RequestContext holds the contextual metadata attached to every log record
// produced while serving one logical unit of work. Values are immutable once
// constructed: updating the context means building a replacement and storing it
// with WithRequestContext, never mutating in place.
type RequestContext struct {
	// Timestamp is the ISO-8601 creation time of the context.
	Timestamp string

	// RequestID is the per-request correlation id, "-" when unset.
	RequestID string

	// UserID is an opaque user identifier, "-" when unset.
	UserID string

	// Service is the logical service name, defaulted from facility configuration.
	Service string

	// Environment is the deployment environment tag, defaulted from configuration.
	Environment string

	// Extra is an open mapping merged into every record.
	Extra map[string]interface{}
}

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const requestContextKey = contextKey("logward.request_context")

// ContextOption configures a RequestContext being built by Logger.SetContext.
type ContextOption func(*RequestContext)

// WithRequestID sets the correlation id on the context being built.
func WithRequestID(id string) ContextOption {
	return func(rc *RequestContext) {
		rc.RequestID = id
	}
}

// WithUserID sets the user id on the context being built.
func WithUserID(id string) ContextOption {
	return func(rc *RequestContext) {
		rc.UserID = id
	}
}

// WithTimestamp overrides the context creation timestamp.
func WithTimestamp(ts string) ContextOption {
	return func(rc *RequestContext) {
		rc.Timestamp = ts
	}
}

// WithContextExtra sets the open extra mapping on the context being built.
// The map is copied so later caller mutations cannot leak into stored contexts.
func WithContextExtra(extra map[string]interface{}) ContextOption {
	return func(rc *RequestContext) {
		m := make(map[string]interface{}, len(extra))
		for k, v := range extra {
			m[k] = v
		}
		rc.Extra = m
	}
}

// WithRequestContext stores a RequestContext on the context. Each derived context
// carries its own value, so concurrent units of work are isolated by construction:
// a context set for one request is never visible to another.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFrom extracts the RequestContext stored on ctx.
// The second return value reports whether one was present.
func RequestContextFrom(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(RequestContext)
	return rc, ok
}

// newRequestContext builds a RequestContext from facility defaults overlaid with
// the supplied options.
func newRequestContext(service, environment string, now func() time.Time, opts ...ContextOption) RequestContext {
	rc := RequestContext{
		Timestamp:   now().UTC().Format(time.RFC3339Nano),
		RequestID:   sentinel,
		UserID:      sentinel,
		Service:     service,
		Environment: environment,
	}
	for _, opt := range opts {
		opt(&rc)
	}
	return rc
}
