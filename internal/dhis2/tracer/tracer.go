// Package tracer provides a lightweight tracing abstraction for registry calls.
//
// It defines an internal tracer interface that doesn't depend directly on
// OpenTelemetry APIs, so the registry client can emit distributed traces while
// remaining decoupled from a specific tracing implementation.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to
	// child operations. The span must be ended by calling Span.End().
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashPassport returns a SHA-256 hash of the passport number for safe logging
// in traces. This allows correlation without exposing PII.
func HashPassport(passport string) string {
	if passport == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(passport))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the registry client.
const (
	SpanSearch        = "registry.search"
	SpanReserve       = "registry.reserve"
	SpanUpsert        = "registry.upsert"
	SpanEnrollment    = "registry.enrollment"
	SpanTrackedEntity = "registry.tracked_entity"
	SpanMetadata      = "registry.metadata"
)

// Attribute keys used by the registry client.
const (
	AttrPassportHash = "passport_hash"
	AttrFilterCount  = "filter.count"
	AttrReserveCount = "reserve.count"
	AttrEntityCount  = "entity.count"
	AttrStatusCode   = "http.status_code"
)
