package models

import (
	"time"
)

// Video is a catalog record scraped from a third-party page.
type Video struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	EmbedURL    string     `json:"embed_url"`
	// Thumbnail is either an absolute URL or a storage-relative path;
	// empty means callers substitute the default poster.
	Thumbnail   string     `json:"thumbnail"`
	Duration    string     `json:"duration"`     // display text, "MM:SS" or "HH:MM:SS"
	DurationSec int        `json:"duration_sec"` // never negative
	Views       int64      `json:"views"`
	UploadDate  *time.Time `json:"upload_date,omitempty"`
	Categories  []string   `json:"categories"`
	Tags        []string   `json:"tags"`
	Indexed     bool       `json:"google_indexed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LastMod returns the freshest known publication date for sitemap
// lastmod fields: upload_date, then created_at, then now. The fallback
// chain is load-bearing for crawlers and must not be reordered.
func (v *Video) LastMod(now time.Time) time.Time {
	if v.UploadDate != nil && !v.UploadDate.IsZero() {
		return *v.UploadDate
	}
	if !v.CreatedAt.IsZero() {
		return v.CreatedAt
	}
	return now
}
