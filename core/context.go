package core

import (
	"context"
	"time"
)

// Context keys for execution options
type contextKey string

const (
	nowKey            contextKey = "now"
	suppressHeaderKey contextKey = "suppressHeader"
)

// WithNow pins the reference time used for deadlines and save timestamps.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey, now)
}

// nowFrom returns the pinned reference time, or the current time
func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey).(time.Time); ok {
		return now
	}
	return time.Now()
}

// WithSuppressHeader marks the context so that check headers are not printed
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
