// Package guard holds the two origin checks: the same-site CSRF guard
// on the write path, and the looser allow-list that gates iframe
// embedding.
package guard

import (
	"net/url"
	"strings"

	"github.com/formhive/formhive/model"
)

// SameSite reports whether a browser POST comes from our own pages.
// When both Origin and Referer are present they must parse and agree
// on hostname. A missing header is allowed on purpose: non-browser
// API clients send neither, and that use case is supported.
func SameSite(origin, referer string) bool {
	if origin == "" || referer == "" {
		return true
	}
	o, err := url.Parse(origin)
	if err != nil || o.Hostname() == "" {
		return false
	}
	r, err := url.Parse(referer)
	if err != nil || r.Hostname() == "" {
		return false
	}
	return o.Hostname() == r.Hostname()
}

// ResolveEmbedOrigin picks the embedding page's origin: an explicit
// query parameter wins, else the Referer is reduced to its origin.
func ResolveEmbedOrigin(queryOrigin, referer string) string {
	if queryOrigin != "" {
		return queryOrigin
	}
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// EmbedAllowed decides whether a page at pageOrigin may embed the
// form. The reason string is shown by the embed page when denied; it
// is presentation state, not an HTTP error.
func EmbedAllowed(emb model.FormEmbedding, pageOrigin string) (bool, string) {
	if !emb.RequireOrigin {
		return true, ""
	}
	if len(emb.AllowedOrigins) == 0 {
		return true, ""
	}
	if pageOrigin == "" {
		return false, "This form requires an allowed origin, but none could be determined"
	}

	host := hostnameOf(pageOrigin)
	for _, allowed := range emb.AllowedOrigins {
		if pattern, ok := strings.CutPrefix(allowed, "*."); ok {
			if host != "" && strings.HasSuffix(host, pattern) {
				return true, ""
			}
			continue
		}
		if pageOrigin == allowed {
			return true, ""
		}
	}
	return false, "This form cannot be embedded from " + pageOrigin
}

func hostnameOf(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
