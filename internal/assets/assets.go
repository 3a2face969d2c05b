// Package assets centralizes URL resolution for media referenced by
// pages, feeds, and sitemaps. Every endpoint that emits a thumbnail or
// player URL goes through the same Resolver so the rules cannot drift.
package assets

import (
	"net/url"
	"strings"
)

// DefaultPosterPath is served when a record has no thumbnail.
const DefaultPosterPath = "/uploads/default-poster.jpg"

// Resolver turns stored asset locators into absolute URLs.
type Resolver struct {
	siteURL     string // no trailing slash
	playerProxy string
}

// NewResolver creates a Resolver for the given site base URL and embed
// player proxy URL (may be empty; embeds are then used directly).
func NewResolver(siteURL, playerProxy string) *Resolver {
	return &Resolver{
		siteURL:     strings.TrimRight(siteURL, "/"),
		playerProxy: playerProxy,
	}
}

// SiteURL returns the site base URL without a trailing slash.
func (r *Resolver) SiteURL() string { return r.siteURL }

// Thumbnail resolves a stored thumbnail value: absolute URLs pass
// through verbatim, empty values fall back to the default poster, and
// anything else is treated as a path relative to the site.
func (r *Resolver) Thumbnail(stored string) string {
	if stored == "" {
		return r.siteURL + DefaultPosterPath
	}
	if hasScheme(stored) {
		return stored
	}
	return r.siteURL + "/" + strings.TrimLeft(stored, "/")
}

// PlayerURL builds the proxied player location for an embed locator.
// Stored embeds are protocol-relative ("//host/path"); the https scheme
// is pinned before proxying.
func (r *Resolver) PlayerURL(embed string) string {
	full := embed
	if strings.HasPrefix(embed, "//") {
		full = "https:" + embed
	}
	if r.playerProxy == "" {
		return full
	}
	return r.playerProxy + "?url=" + url.QueryEscape(full)
}

// VideoURL returns the canonical detail-page URL for a slug.
func (r *Resolver) VideoURL(slug string) string {
	return r.siteURL + "/video/" + slug
}

func hasScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
