package httpx

import (
	"net/http"
	"strings"
)

// UnknownClient is the sentinel key used when no proxy header yields
// an address. All such requests share one rate-limit bucket.
const UnknownClient = "unknown"

// ClientKeyFunc resolves the best-effort client identifier used for
// rate limiting and duplicate detection. Injectable so deployments
// can swap in a stronger identity scheme (cookie, session token).
type ClientKeyFunc func(r *http.Request) string

// ClientKey extracts a client IP from proxy headers, first match wins:
// x-forwarded-for (first hop), x-real-ip, cf-connecting-ip.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("Cf-Connecting-Ip")); ip != "" {
		return ip
	}
	return UnknownClient
}
