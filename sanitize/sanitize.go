// Package sanitize scrubs untrusted submission payloads before they are
// validated or persisted. The transform is shape-preserving and idempotent.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	reAngleBrackets = regexp.MustCompile(`[<>]`)
	reJavascriptURI = regexp.MustCompile(`(?i)javascript:`)
	reEventHandler  = regexp.MustCompile(`(?i)on\w+\s*=`)
	reUnsafeKeyChar = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// Value recursively sanitizes an arbitrary decoded-JSON value.
// Strings lose angle brackets, javascript: URIs and inline event
// handler attributes, and get trimmed. Arrays keep order and length.
// Object keys are reduced to [A-Za-z0-9_-]; keys that collide after
// stripping overwrite earlier entries (last write wins).
// Numbers, booleans and nulls pass through unchanged.
func Value(v any) any {
	switch v := v.(type) {
	case string:
		return String(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Value(elem)
		}
		return out
	case map[string]any:
		return Map(v)
	default:
		return v
	}
}

// String sanitizes a single string leaf. The replacements loop to a
// fixed point: removing one dangerous substring can splice together
// another ("jonx=avascript:" leaves "javascript:" after one pass).
func String(s string) string {
	for {
		next := reAngleBrackets.ReplaceAllString(s, "")
		next = reJavascriptURI.ReplaceAllString(next, "")
		next = reEventHandler.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// Map sanitizes an object: keys and values both.
func Map(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, val := range m {
		out[Key(key)] = Value(val)
	}
	return out
}

// Key strips every character outside [A-Za-z0-9_-] from an object key.
func Key(k string) string {
	return reUnsafeKeyChar.ReplaceAllString(k, "")
}
