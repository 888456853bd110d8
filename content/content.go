// Package content defines the payload model for inscription content and the
// Source abstraction that resolves an inscription id to a payload.
package content

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kind tags the variant a Payload carries. Content-type inference happens here,
// at the boundary, so downstream consumers (cache, gallery) never sniff shapes.
type Kind int

const (
	// KindText is plain textual content.
	KindText Kind = iota
	// KindBinary is raw bytes (images, audio, video, models).
	KindBinary
	// KindObject is structured content carried as a decoded value.
	KindObject
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Default content types per kind, used when a source does not supply one.
const (
	DefaultTextType   = "text/plain"
	DefaultBinaryType = "application/octet-stream"
	DefaultObjectType = "application/json"
)

// Payload is a tagged-variant content value returned by a Source. Exactly one
// of Text, Bytes or Object is meaningful, selected by Kind.
type Payload struct {
	Kind        Kind
	ContentType string
	Text        string
	Bytes       []byte
	Object      any
}

// Text creates a textual payload. An empty contentType defaults to text/plain.
func Text(s string, contentType string) Payload {
	if contentType == "" {
		contentType = DefaultTextType
	}
	return Payload{Kind: KindText, ContentType: contentType, Text: s}
}

// Binary creates a binary payload. An empty contentType defaults to
// application/octet-stream.
func Binary(b []byte, contentType string) Payload {
	if contentType == "" {
		contentType = DefaultBinaryType
	}
	return Payload{Kind: KindBinary, ContentType: contentType, Bytes: b}
}

// Object creates a structured payload. An empty contentType defaults to
// application/json.
func Object(v any, contentType string) Payload {
	if contentType == "" {
		contentType = DefaultObjectType
	}
	return Payload{Kind: KindObject, ContentType: contentType, Object: v}
}

// EstimateSize returns the estimated byte cost of the payload for cache
// accounting. Strings cost 2 bytes per character, binary payloads cost their
// exact length, and objects cost twice their serialized JSON length. The result
// is a heuristic, not an exact measurement.
func (p Payload) EstimateSize() int64 {
	switch p.Kind {
	case KindText:
		return int64(2 * len(p.Text))
	case KindBinary:
		return int64(len(p.Bytes))
	case KindObject:
		data, err := json.Marshal(p.Object)
		if err != nil {
			// Unserializable objects still occupy memory; charge a nominal cost.
			return 64
		}
		return int64(2 * len(data))
	default:
		return 0
	}
}

// IsZero reports whether the payload is the zero value.
func (p Payload) IsZero() bool {
	return p.ContentType == "" && p.Text == "" && p.Bytes == nil && p.Object == nil
}

// Source resolves an inscription id to its content. Implementations are
// typically HTTP clients against a content API or wallet RPC adapters; the
// engine only requires that Fetch be context-aware and may return an error.
type Source interface {
	Fetch(ctx context.Context, id string) (Payload, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context, id string) (Payload, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, id string) (Payload, error) {
	return f(ctx, id)
}

// NormalizeIDs filters an id list down to unique, non-empty identifiers while
// preserving first-seen order.
func NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Describe returns a short human-readable summary, used in logs.
func (p Payload) Describe() string {
	return fmt.Sprintf("%s (%s, ~%d bytes)", p.Kind, p.ContentType, p.EstimateSize())
}
